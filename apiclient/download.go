// download.go — скачивание файлов документов (основной файл, обложка).
// Файлы отдаются по абсолютному URL (после достройки пути), поэтому
// запрос идёт мимо baseURL; сессионные заголовки и метрики сохраняются.
package apiclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Download скачивает файл по абсолютному URL.
// Возвращает поток содержимого и Content-Type ответа; закрыть поток
// обязан вызывающий. Не-2xx ответ разбирается в *APIError.
func (c *Client) Download(ctx context.Context, fileURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("создание запроса файла %s: %w", fileURL, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	normalized := normalizePath(req.URL.Path)

	// uploadClient: у файлов тот же увеличенный таймаут, что и у загрузок
	resp, err := c.uploadClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		requestsTotal.WithLabelValues(http.MethodGet, normalized, "transport_error").Inc()
		c.logger.Error("Скачивание файла не выполнено",
			slog.String("path", req.URL.Path),
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return nil, "", fmt.Errorf("скачивание %s: %w", fileURL, err)
	}

	requestsTotal.WithLabelValues(http.MethodGet, normalized, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	requestDuration.WithLabelValues(http.MethodGet, normalized).Observe(duration.Seconds())

	level := slog.LevelDebug
	if resp.StatusCode >= 500 {
		level = slog.LevelError
	} else if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	c.logger.LogAttrs(req.Context(), level, "Скачивание файла",
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("duration", duration),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, "", decodeAPIError(resp)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}
