// Package querycache кеш результатов запросов по ключу. Записи живут до явной
// инвалидации: ни TTL, ни вытеснения нет, следующее чтение после Invalidate
// идёт в источник. Чтение, начатое до Invalidate, свой результат в кеш уже
// не запишет.
package querycache

import (
	"context"
	"fmt"
	"sync/atomic"

	"todoTracker/internal/logger"

	"go.uber.org/zap"
)

// Backend место хранения записей. У каждого ключа есть версия, которую
// увеличивает Delete
type Backend[V any] interface {
	Load(ctx context.Context, key string) (V, bool, error)
	Version(ctx context.Context, key string) (uint64, error)
	// Store пишет значение, только если версия ключа всё ещё равна version
	Store(ctx context.Context, key string, value V, version uint64) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

type Fetcher[V any] func(ctx context.Context) (V, error)

type Stats struct {
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Invalidations uint64 `json:"invalidations"`
	Errors        uint64 `json:"errors"`
	Stale         uint64 `json:"stale"`
}

type Cache[V any] struct {
	backend Backend[V]
	stats   Stats
}

func New[V any](backend Backend[V]) *Cache[V] {
	return &Cache[V]{backend: backend}
}

// Get отдаёт закешированное значение или вызывает fetch и запоминает результат.
// Ошибка fetch не кешируется. Одновременные промахи по одному ключу не
// схлопываются: каждый вызов идёт в источник
func (c *Cache[V]) Get(ctx context.Context, key string, fetch Fetcher[V]) (V, error) {
	value, ok, err := c.backend.Load(ctx, key)
	if err != nil {
		// кеш недоступен - читаем напрямую
		atomic.AddUint64(&c.stats.Errors, 1)
		atomic.AddUint64(&c.stats.Misses, 1)
		logger.Warn("Cache: Ошибка чтения", zap.String("key", key), zap.Error(err))
		return fetch(ctx)
	}
	if ok {
		atomic.AddUint64(&c.stats.Hits, 1)
		return value, nil
	}
	atomic.AddUint64(&c.stats.Misses, 1)

	// версию берём до запроса к источнику
	version, err := c.backend.Version(ctx, key)
	if err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		logger.Warn("Cache: Ошибка чтения версии", zap.String("key", key), zap.Error(err))
		return fetch(ctx)
	}

	value, err = fetch(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	stored, err := c.backend.Store(ctx, key, value, version)
	switch {
	case err != nil:
		atomic.AddUint64(&c.stats.Errors, 1)
		logger.Warn("Cache: Ошибка записи", zap.String("key", key), zap.Error(err))
	case !stored:
		atomic.AddUint64(&c.stats.Stale, 1)
		logger.Debug("Cache: Ключ инвалидирован во время чтения, результат не сохранён", zap.String("key", key))
	}
	return value, nil
}

// Peek значение без обращения к источнику
func (c *Cache[V]) Peek(ctx context.Context, key string) (V, bool) {
	value, ok, err := c.backend.Load(ctx, key)
	if err != nil {
		var zero V
		return zero, false
	}
	return value, ok
}

// Invalidate помечает ключи устаревшими
func (c *Cache[V]) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.backend.Delete(ctx, keys...); err != nil {
		atomic.AddUint64(&c.stats.Errors, 1)
		return fmt.Errorf("инвалидация %v: %w", keys, err)
	}
	atomic.AddUint64(&c.stats.Invalidations, uint64(len(keys)))
	logger.Debug("Cache: Инвалидация", zap.Strings("keys", keys))
	return nil
}

func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:          atomic.LoadUint64(&c.stats.Hits),
		Misses:        atomic.LoadUint64(&c.stats.Misses),
		Invalidations: atomic.LoadUint64(&c.stats.Invalidations),
		Errors:        atomic.LoadUint64(&c.stats.Errors),
		Stale:         atomic.LoadUint64(&c.stats.Stale),
	}
}
