// Пакет config — загрузка и валидация конфигурации клиентского модуля
// Tesisteca из переменных окружения (префикс TC_). Поддерживается файл .env
// в рабочем каталоге (godotenv), переменные окружения имеют приоритет.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия модуля, задаётся при сборке через -ldflags.
var Version = "dev"

// Режимы фильтра по специальности (см. CareerFilterMode).
const (
	// CareerFilterLegacy — буквальное воспроизведение исторического поведения:
	// выбранные id специальностей сравниваются с idStudent документа.
	CareerFilterLegacy = "legacy"
	// CareerFilterCareer — исправленная семантика: сравнивается
	// фактическая специальность студента (idCareer).
	CareerFilterCareer = "career"
)

// Config содержит все параметры клиентского модуля.
type Config struct {
	// --- API ---

	// Базовый URL REST API репозитория (обязательный)
	APIURL string
	// Таймаут обычных HTTP-запросов (по умолчанию 30s)
	APITimeout time.Duration
	// Таймаут multipart-загрузок (по умолчанию 120s)
	UploadTimeout time.Duration
	// Путь к CA-сертификату для TLS (пустая строка — стандартный пул)
	CACertPath string

	// --- Логирование ---

	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Кэш деталей документов ---

	// Максимальное количество записей в LRU-кэше (по умолчанию 256)
	CacheSize int
	// TTL записи кэша (по умолчанию 5m)
	CacheTTL time.Duration

	// --- Просмотр ---

	// Размер страницы списка документов (по умолчанию 8)
	PageSize int
	// Режим фильтра по специальности (legacy | career)
	CareerFilterMode string
	// Исключать отключённые документы из публичной выдачи
	// (по умолчанию false — историческое поведение)
	PublicActiveOnly bool

	// --- JWT ---

	// URL JWKS endpoint API для локальной проверки подписи токена
	// (пустая строка — подпись не проверяется, claims только разбираются)
	JWKSURL string
	// Интервал обновления JWKS-ключей (по умолчанию 1h)
	JWKSRefreshInterval time.Duration
	// Допустимое отклонение времени при проверке JWT (по умолчанию 30s)
	JWTLeeway time.Duration
}

// Load загружает конфигурацию из .env (если есть) и переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
func Load() (*Config, error) {
	// .env — best effort: отсутствие файла не ошибка
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	// --- API ---

	// TC_API_URL — базовый URL API (обязательный)
	cfg.APIURL, err = getEnvRequired("TC_API_URL")
	if err != nil {
		return nil, err
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	// TC_API_TIMEOUT — таймаут запросов (по умолчанию 30s)
	cfg.APITimeout, err = getEnvDuration("TC_API_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("TC_API_TIMEOUT: %w", err)
	}

	// TC_UPLOAD_TIMEOUT — таймаут multipart-загрузок (по умолчанию 120s)
	cfg.UploadTimeout, err = getEnvDuration("TC_UPLOAD_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("TC_UPLOAD_TIMEOUT: %w", err)
	}

	// TC_CA_CERT_PATH — CA-сертификат для TLS (опционально)
	cfg.CACertPath = getEnvDefault("TC_CA_CERT_PATH", "")

	// --- Логирование ---

	// TC_LOG_LEVEL — уровень логирования (по умолчанию info)
	logLevel := getEnvDefault("TC_LOG_LEVEL", "info")
	cfg.LogLevel, err = parseLogLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("TC_LOG_LEVEL: %w", err)
	}

	// TC_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("TC_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("TC_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Кэш ---

	// TC_CACHE_SIZE — размер LRU-кэша деталей (по умолчанию 256)
	cfg.CacheSize, err = getEnvInt("TC_CACHE_SIZE", 256)
	if err != nil {
		return nil, fmt.Errorf("TC_CACHE_SIZE: %w", err)
	}

	// TC_CACHE_TTL — TTL записи кэша (по умолчанию 5m)
	cfg.CacheTTL, err = getEnvDuration("TC_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("TC_CACHE_TTL: %w", err)
	}

	// --- Просмотр ---

	// TC_PAGE_SIZE — размер страницы (по умолчанию 8)
	cfg.PageSize, err = getEnvInt("TC_PAGE_SIZE", 8)
	if err != nil {
		return nil, fmt.Errorf("TC_PAGE_SIZE: %w", err)
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("TC_PAGE_SIZE: значение должно быть > 0")
	}

	// TC_CAREER_FILTER_MODE — семантика фильтра по специальности
	// (по умолчанию legacy — баг-совместимое поведение)
	cfg.CareerFilterMode = getEnvDefault("TC_CAREER_FILTER_MODE", CareerFilterLegacy)
	if cfg.CareerFilterMode != CareerFilterLegacy && cfg.CareerFilterMode != CareerFilterCareer {
		return nil, fmt.Errorf("TC_CAREER_FILTER_MODE: недопустимый режим %q, допустимые: %s, %s",
			cfg.CareerFilterMode, CareerFilterLegacy, CareerFilterCareer)
	}

	// TC_PUBLIC_ACTIVE_ONLY — скрывать отключённые документы (по умолчанию false)
	cfg.PublicActiveOnly, err = getEnvBool("TC_PUBLIC_ACTIVE_ONLY", false)
	if err != nil {
		return nil, fmt.Errorf("TC_PUBLIC_ACTIVE_ONLY: %w", err)
	}

	// --- JWT ---

	// TC_JWKS_URL — JWKS endpoint (опционально)
	cfg.JWKSURL = getEnvDefault("TC_JWKS_URL", "")

	// TC_JWKS_REFRESH_INTERVAL — интервал обновления ключей (по умолчанию 1h)
	cfg.JWKSRefreshInterval, err = getEnvDuration("TC_JWKS_REFRESH_INTERVAL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("TC_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// TC_JWT_LEEWAY — допустимое отклонение времени (по умолчанию 30s)
	cfg.JWTLeeway, err = getEnvDuration("TC_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("TC_JWT_LEEWAY: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
