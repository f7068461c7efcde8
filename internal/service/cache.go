// Пакет service — бизнес-логика портала LIDDER.
// SheetCache — TTL-кэш снимков листов удалённой таблицы.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lp_cache_hits_total",
		Help: "Общее количество попаданий в кэш снимков листов.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lp_cache_misses_total",
		Help: "Общее количество промахов кэша снимков листов.",
	})
)

// SheetCache — TTL-кэш снимков листов: идентификатор листа → нормализованные записи.
// Снимок старше TTL считается устаревшим и отдаётся заново только после refetch;
// явная инвалидация (успешная регистрация проекта, ручное обновление календаря)
// удаляет снимок независимо от возраста. Потокобезопасен.
type SheetCache struct {
	cache *expirable.LRU[string, []model.Record]
}

// NewSheetCache создаёт кэш снимков с указанным максимумом листов и TTL.
func NewSheetCache(maxSheets int, ttl time.Duration) *SheetCache {
	cache := expirable.NewLRU[string, []model.Record](maxSheets, nil, ttl)
	return &SheetCache{cache: cache}
}

// Get возвращает снимок листа из кэша.
// Возвращает (записи, true) при hit или (nil, false) при miss/истечении TTL.
// Обновляет Prometheus-метрики hit/miss.
func (c *SheetCache) Get(sheet string) ([]model.Record, bool) {
	val, ok := c.cache.Get(sheet)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set сохраняет снимок листа в кэше.
func (c *SheetCache) Set(sheet string, records []model.Record) {
	c.cache.Add(sheet, records)
}

// Invalidate удаляет снимок листа независимо от возраста.
// Следующий Load всегда выполнит refetch.
func (c *SheetCache) Invalidate(sheet string) {
	c.cache.Remove(sheet)
}
