package service

import (
	"sync"
	"time"

	"bizatlas/internal/domain"
)

// CompiledCache holds compiled artifacts keyed by cache key with a TTL.
// The compiler is cheap, but a hit also lets callers skip re-validation and
// signals result-cache freshness to downstream collaborators.
type CompiledCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	compiled  *domain.CompiledQuery
	expiresAt time.Time
}

// NewCompiledCache creates a cache whose entries expire after ttl.
func NewCompiledCache(ttl time.Duration) *CompiledCache {
	return &CompiledCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached artifact for key, if present and fresh.
func (c *CompiledCache) Get(key string) (*domain.CompiledQuery, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.compiled, true
}

// Put stores the artifact under its cache key.
func (c *CompiledCache) Put(compiled *domain.CompiledQuery) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[compiled.CacheKey] = cacheEntry{
		compiled:  compiled,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Sweep drops expired entries and returns how many were removed. Called
// periodically by the maintenance job.
func (c *CompiledCache) Sweep() int {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the current number of entries, expired or not.
func (c *CompiledCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
