// Пакет apiclient — HTTP-клиент REST API репозитория Tesisteca.
// Тонкая обёртка над net/http: JSON и multipart-запросы к коллекциям
// ресурсов, cookie-сессия + опциональный Bearer-токен, TLS с кастомным CA,
// корреляция запросов через X-Request-ID, slog-логирование и
// Prometheus-метрики исходящих запросов.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client — HTTP-клиент API репозитория.
// Безопасен для конкурентного использования.
type Client struct {
	httpClient   *http.Client
	uploadClient *http.Client
	baseURL      string
	logger       *slog.Logger

	// Bearer-токен сессии (thread-safe; пустая строка — только cookie)
	mu    sync.RWMutex
	token string
}

// New создаёт клиент API.
// baseURL — базовый URL API (например, http://localhost:10000/api).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
// timeout — таймаут обычных запросов, uploadTimeout — multipart-загрузок.
func New(
	baseURL string,
	caCertPath string,
	timeout time.Duration,
	uploadTimeout time.Duration,
	logger *slog.Logger,
) (*Client, error) {
	// Cookie jar общий для обоих клиентов: сессионная cookie,
	// выставленная /auth/login, уходит во все последующие запросы.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("создание cookie jar: %w", err)
	}

	transport := &http.Transport{
		// Настройка пула idle-соединений для эффективного переиспользования
		MaxIdleConnsPerHost: 10,
	}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата API: %w", err)
		}
		transport.TLSClientConfig = tlsConfig
		logger.Info("CA-сертификат API добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			Jar:       jar,
		},
		uploadClient: &http.Client{
			Timeout:   uploadTimeout,
			Transport: transport,
			Jar:       jar,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With(slog.String("component", "api_client")),
	}, nil
}

// BaseURL возвращает базовый URL API (для достройки file/image URL).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken сохраняет Bearer-токен сессии.
// Пустая строка сбрасывает токен (logout).
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token возвращает текущий Bearer-токен сессии (пустая строка — нет токена).
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Get выполняет GET-запрос и декодирует JSON-ответ в out (nil — тело не нужно).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("создание запроса GET %s: %w", path, err)
	}
	return c.do(c.httpClient, req, out)
}

// Post выполняет POST-запрос с JSON-телом.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

// Put выполняет PUT-запрос с JSON-телом.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, body, out)
}

// Patch выполняет PATCH-запрос (body может быть nil — пустое тело).
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, body, out)
}

// Delete выполняет DELETE-запрос.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("создание запроса DELETE %s: %w", path, err)
	}
	return c.do(c.httpClient, req, out)
}

// sendJSON сериализует body и выполняет запрос с Content-Type: application/json.
func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("сериализация тела %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(c.httpClient, req, out)
}

// do выполняет подготовленный запрос: Bearer-токен, X-Request-ID,
// метрики, логирование, разбор ошибки API при не-2xx статусе.
func (c *Client) do(client *http.Client, req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	normalized := normalizePath(req.URL.Path)

	resp, err := client.Do(req)
	duration := time.Since(start)

	if err != nil {
		requestsTotal.WithLabelValues(req.Method, normalized, "transport_error").Inc()
		c.logger.Error("HTTP запрос к API не выполнен",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("запрос %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(req.Method, normalized, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	requestDuration.WithLabelValues(req.Method, normalized).Observe(duration.Seconds())

	// Уровень логирования зависит от статус-кода
	level := slog.LevelDebug
	if resp.StatusCode >= 500 {
		level = slog.LevelError
	} else if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	c.logger.LogAttrs(req.Context(), level, "HTTP запрос к API",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("duration", duration),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		// Тело не нужно — вычитываем для переиспользования соединения
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("декодирование ответа %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA-сертификатом.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}
