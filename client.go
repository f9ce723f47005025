// Package tesisteca — клиентский модуль репозитория дипломных работ.
//
// Фасад собирает слои модуля поверх REST API репозитория: HTTP-клиент,
// сессию аутентификации, кэширующие хранилища справочников и документов
// и конвейер просмотра каталога. Потребитель (UI, утилиты, интеграции)
// работает только с фасадом и пакетами domain/model и browse.
package tesisteca

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bigkaa/tesisteca/client-module/apiclient"
	"github.com/bigkaa/tesisteca/client-module/auth"
	"github.com/bigkaa/tesisteca/client-module/browse"
	"github.com/bigkaa/tesisteca/client-module/config"
	"github.com/bigkaa/tesisteca/client-module/domain/model"
	"github.com/bigkaa/tesisteca/client-module/fileurl"
	"github.com/bigkaa/tesisteca/client-module/store"
)

// Client — собранный клиент репозитория.
type Client struct {
	cfg    *config.Config
	logger *slog.Logger

	// API — низкоуровневый HTTP-клиент (для нестандартных запросов).
	API *apiclient.Client
	// Auth — сессия аутентификации и авторизация по ролям.
	Auth *auth.Session

	// Documents — документы с обогащением связями.
	Documents *store.DocumentStore
	// Students, Careers, Faculties, Categories — справочники.
	Students   *store.Store[model.Student]
	Careers    *store.Store[model.Career]
	Faculties  *store.Store[model.Faculty]
	Categories *store.Store[model.Category]
	// Users — пользователи-ревьюеры (доступно администратору).
	Users *store.Store[model.User]
}

// New собирает клиент по готовой конфигурации.
func New(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	api, err := apiclient.New(cfg.APIURL, cfg.CACertPath, cfg.APITimeout, cfg.UploadTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("создание API-клиента: %w", err)
	}

	// Отдельный http.Client для фонового обновления JWKS:
	// у него свой жизненный цикл, cookie и Bearer ему не нужны
	verifier, err := auth.NewVerifier(
		cfg.JWKSURL,
		&http.Client{Timeout: cfg.APITimeout},
		cfg.JWKSRefreshInterval,
		cfg.JWTLeeway,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("создание JWT-верификатора: %w", err)
	}

	c := &Client{
		cfg:    cfg,
		logger: logger,

		API:  api,
		Auth: auth.NewSession(api, verifier, auth.DefaultPolicy(), logger),

		Documents:  store.NewDocuments(api, cfg.CacheSize, cfg.CacheTTL, logger),
		Students:   store.NewStudents(api, logger),
		Careers:    store.NewCareers(api, logger),
		Faculties:  store.NewFaculties(api, logger),
		Categories: store.NewCategories(api, logger),
		Users:      store.NewUsers(api, logger),
	}
	return c, nil
}

// NewFromEnv собирает клиент по переменным окружения (TC_*).
// Логгер настраивается по TC_LOG_LEVEL и TC_LOG_FORMAT.
func NewFromEnv() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("загрузка конфигурации: %w", err)
	}
	return New(cfg, config.SetupLogger(cfg))
}

// Browse создаёт сеанс просмотра каталога с настройками из конфигурации.
// public скрывает отключённые документы независимо от
// TC_PUBLIC_ACTIVE_ONLY (каталог без входа).
func (c *Client) Browse(public bool) *browse.Session {
	return browse.NewSession(
		c.Documents,
		c.Students,
		c.Careers,
		c.Users,
		c.cfg.PageSize,
		browse.Options{
			CareerFilterMode: browse.CareerFilterMode(c.cfg.CareerFilterMode),
			ActiveOnly:       public || c.cfg.PublicActiveOnly,
		},
	)
}

// FileURL достраивает путь файла из API до абсолютного URL
// относительно базового адреса клиента.
func (c *Client) FileURL(path string) string {
	return fileurl.Complete(c.API.BaseURL(), path)
}

// DownloadFile скачивает файл документа по пути из API (filePath,
// imageUrl). Закрыть поток обязан вызывающий.
func (c *Client) DownloadFile(ctx context.Context, path string) (io.ReadCloser, string, error) {
	return c.API.Download(ctx, c.FileURL(path))
}

// Invalidate сбрасывает все кэши хранилищ (например, после logout).
func (c *Client) Invalidate() {
	c.Documents.Invalidate()
	c.Students.Invalidate()
	c.Careers.Invalidate()
	c.Faculties.Invalidate()
	c.Categories.Invalidate()
	c.Users.Invalidate()
}
