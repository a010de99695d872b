package cache

import (
	"fmt"
	"time"

	"fintrack/internal/stats"
)

// StatsCache caches statistics payloads keyed by (year, mode, month).
// Any transaction or budget write invalidates the whole cache, since a
// single row can shift every derived figure.
type StatsCache struct {
	lru *LRUCache[stats.Payload]
}

func NewStatsCache(maxSize int, ttl time.Duration) *StatsCache {
	return &StatsCache{lru: NewLRUCache[stats.Payload](maxSize, ttl)}
}

func statsKey(q stats.Query) string {
	return fmt.Sprintf("%d:%s:%d", q.Year, q.Mode, q.Month)
}

// Get returns the cached payload for a query.
func (c *StatsCache) Get(q stats.Query) (stats.Payload, bool) {
	return c.lru.Get(statsKey(q))
}

// Put stores the payload for a query.
func (c *StatsCache) Put(q stats.Query, p stats.Payload) {
	c.lru.Set(statsKey(q), p)
}

// Invalidate drops every cached payload.
func (c *StatsCache) Invalidate() {
	c.lru.Purge()
}

// CleanExpired implements Cleaner for the cache manager.
func (c *StatsCache) CleanExpired() int {
	return c.lru.CleanExpired()
}

// Size returns the number of cached payloads.
func (c *StatsCache) Size() int {
	return c.lru.Size()
}
