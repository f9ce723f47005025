// metrics.go — Prometheus-метрики исходящих запросов к API.
// Нормализация путей предотвращает взрывной рост кардинальности.
package apiclient

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики исходящих HTTP-запросов
var (
	// requestsTotal — общее количество запросов к API.
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tc_api_requests_total",
			Help: "Общее количество исходящих HTTP-запросов к API репозитория",
		},
		[]string{"method", "path", "status"},
	)

	// requestDuration — гистограмма длительности запросов к API.
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tc_api_request_duration_seconds",
			Help:    "Длительность исходящих HTTP-запросов к API в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// normalizePath заменяет числовые id-сегменты пути на {id}:
// /resources/42 → /resources/{id},
// /resources/42/disable → /resources/{id}/disable,
// /resource-user/user/7 → /resource-user/user/{id}.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg != "" && isDigits(seg) {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

// isDigits сообщает, состоит ли строка только из цифр.
func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
