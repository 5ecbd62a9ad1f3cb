package candles

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/psycho789/bball-sub002/internal/domain"
)

// Source names for cache keys. Candles from the tick aggregator and
// official per-minute candles never share an entry.
const (
	SourceTicks    = "ticks"
	SourceOfficial = "official"
)

// cacheKey identifies one memoized aggregation result.
type cacheKey struct {
	source            string
	ticker            string
	resolutionSeconds int
	startMicros       int64
	endMicros         int64
}

// Cache memoizes aggregation results with TTL and size-bounded LRU
// eviction. It is an injected dependency, never process-global, so
// tests run with isolated deterministic instances. Safe for concurrent
// use by simulation workers.
type Cache struct {
	service *Service
	entries *lru.LRU[cacheKey, []*domain.Candle]
}

// Default cache bounds
const (
	DefaultCacheTTL        = time.Hour
	DefaultCacheMaxEntries = 256
)

// CacheOptions contains configuration for creating a Cache.
type CacheOptions struct {
	Service    *Service
	TTL        time.Duration // default 1h
	MaxEntries int           // default 256
}

// NewCache creates a cache in front of an aggregation service.
func NewCache(opts CacheOptions) *Cache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	return &Cache{
		service: opts.Service,
		entries: lru.NewLRU[cacheKey, []*domain.Candle](maxEntries, nil, ttl),
	}
}

// Candles returns the aggregation result for the window, serving from
// cache when a consistent entry exists. An entry that fails the
// consistency check is discarded and recomputed rather than returned.
func (c *Cache) Candles(ctx context.Context, ticker string, resolutionSeconds int, startMicros, endMicros int64) ([]*domain.Candle, error) {
	key := cacheKey{
		source:            SourceTicks,
		ticker:            ticker,
		resolutionSeconds: resolutionSeconds,
		startMicros:       startMicros,
		endMicros:         endMicros,
	}

	if cached, ok := c.entries.Get(key); ok && consistent(cached, key) {
		return append([]*domain.Candle(nil), cached...), nil
	}

	result, err := c.service.Candles(ctx, ticker, resolutionSeconds, startMicros, endMicros)
	if err != nil {
		return nil, err
	}

	c.entries.Add(key, result)
	return append([]*domain.Candle(nil), result...), nil
}

// Len returns the number of live cache entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// consistent verifies a cached slice still matches its key. Guards
// against a corrupted or cross-wired entry being served; the failure
// mode is a recompute, never bad data.
func consistent(candles []*domain.Candle, key cacheKey) bool {
	for _, candle := range candles {
		if candle == nil ||
			candle.Ticker != key.ticker ||
			candle.ResolutionSeconds != key.resolutionSeconds ||
			candle.PeriodStartMicros < key.startMicros-int64(key.resolutionSeconds)*microsPerSecond ||
			candle.PeriodEndMicros > key.endMicros+int64(key.resolutionSeconds)*microsPerSecond {
			return false
		}
	}
	return true
}
