package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TC_API_URL", "http://localhost:10000/api/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("загрузка конфигурации: %v", err)
	}

	if cfg.APIURL != "http://localhost:10000/api" {
		t.Errorf("хвостовой слэш должен срезаться: %q", cfg.APIURL)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Errorf("таймаут по умолчанию: %v", cfg.APITimeout)
	}
	if cfg.UploadTimeout != 120*time.Second {
		t.Errorf("таймаут загрузок по умолчанию: %v", cfg.UploadTimeout)
	}
	if cfg.CacheSize != 256 || cfg.CacheTTL != 5*time.Minute {
		t.Errorf("параметры кэша по умолчанию: %d, %v", cfg.CacheSize, cfg.CacheTTL)
	}
	if cfg.PageSize != 8 {
		t.Errorf("размер страницы по умолчанию: %d", cfg.PageSize)
	}
	if cfg.CareerFilterMode != CareerFilterLegacy {
		t.Errorf("режим фильтра по умолчанию — legacy, получили %q", cfg.CareerFilterMode)
	}
	if cfg.PublicActiveOnly {
		t.Error("TC_PUBLIC_ACTIVE_ONLY по умолчанию false")
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "json" {
		t.Errorf("логирование по умолчанию: %v, %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadRequiresAPIURL(t *testing.T) {
	t.Setenv("TC_API_URL", "")

	if _, err := Load(); err == nil {
		t.Error("без TC_API_URL ожидали ошибку")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TC_API_URL", "https://tesisteca.uni.edu/api")
	t.Setenv("TC_API_TIMEOUT", "10s")
	t.Setenv("TC_PAGE_SIZE", "20")
	t.Setenv("TC_CAREER_FILTER_MODE", "career")
	t.Setenv("TC_PUBLIC_ACTIVE_ONLY", "true")
	t.Setenv("TC_LOG_LEVEL", "debug")
	t.Setenv("TC_LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("загрузка конфигурации: %v", err)
	}

	if cfg.APITimeout != 10*time.Second {
		t.Errorf("TC_API_TIMEOUT: %v", cfg.APITimeout)
	}
	if cfg.PageSize != 20 {
		t.Errorf("TC_PAGE_SIZE: %d", cfg.PageSize)
	}
	if cfg.CareerFilterMode != CareerFilterCareer {
		t.Errorf("TC_CAREER_FILTER_MODE: %q", cfg.CareerFilterMode)
	}
	if !cfg.PublicActiveOnly {
		t.Error("TC_PUBLIC_ACTIVE_ONLY: ожидали true")
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "text" {
		t.Errorf("логирование: %v, %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"некорректный таймаут", "TC_API_TIMEOUT", "тридцать секунд"},
		{"нулевой размер страницы", "TC_PAGE_SIZE", "0"},
		{"неизвестный режим фильтра", "TC_CAREER_FILTER_MODE", "random"},
		{"неизвестный уровень логов", "TC_LOG_LEVEL", "verbose"},
		{"неизвестный формат логов", "TC_LOG_FORMAT", "xml"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TC_API_URL", "http://localhost:10000/api")
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Errorf("%s=%s должно давать ошибку", tc.key, tc.value)
			}
		})
	}
}
