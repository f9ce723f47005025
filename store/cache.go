// cache.go — LRU-кэш деталей документа с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable. TTL настоящий:
// запись автоматически истекает через TC_CACHE_TTL после добавления
// (вместо хранения мёртвых timestamp'ов, которые никто не проверяет).
package store

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

// Метрики кэша деталей.
var (
	detailCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tc_detail_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш деталей документов.",
	})
	detailCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tc_detail_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша деталей документов.",
	})
)

// DetailCache — LRU-кэш деталей документов с автоматическим TTL.
type DetailCache struct {
	cache *expirable.LRU[int, *model.EnrichedDocument]
}

// NewDetailCache создаёт LRU-кэш с указанным максимальным размером и TTL.
func NewDetailCache(maxSize int, ttl time.Duration) *DetailCache {
	cache := expirable.NewLRU[int, *model.EnrichedDocument](maxSize, nil, ttl)
	return &DetailCache{cache: cache}
}

// Get возвращает документ из кэша по idResource.
// Возвращает (документ, true) при hit или (nil, false) при miss.
func (c *DetailCache) Get(idResource int) (*model.EnrichedDocument, bool) {
	val, ok := c.cache.Get(idResource)
	if ok {
		detailCacheHitsTotal.Inc()
		return val, true
	}
	detailCacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись в кэше.
func (c *DetailCache) Set(idResource int, doc *model.EnrichedDocument) {
	c.cache.Add(idResource, doc)
}

// Delete удаляет запись из кэша (инвалидация при записи).
func (c *DetailCache) Delete(idResource int) {
	c.cache.Remove(idResource)
}

// Purge очищает кэш целиком.
func (c *DetailCache) Purge() {
	c.cache.Purge()
}
