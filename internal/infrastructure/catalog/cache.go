package catalog

import (
	"context"
	"sync"
	"time"
)

// Cache defaults.
const (
	DefaultCacheTTL  = 5 * time.Minute
	DefaultCacheSize = 100
)

type cacheEntry struct {
	data    []byte
	fetched time.Time
}

// RequestCache memoizes response bodies by URL. Entries expire after the TTL;
// when the cache is full the oldest inserted entry is evicted.
type RequestCache struct {
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string
}

// NewRequestCache creates a cache. Non-positive arguments select the defaults.
func NewRequestCache(ttl time.Duration, maxSize int) *RequestCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &RequestCache{
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Fetch returns the cached body for key, or calls load and caches its result.
// Failed loads are not cached.
func (c *RequestCache) Fetch(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if data, ok := c.lookup(key); ok {
		return data, nil
	}

	data, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.store(key, data)
	return data, nil
}

// Clear drops every entry.
func (c *RequestCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.order = nil
}

// Len reports the number of cached entries, expired ones included.
func (c *RequestCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *RequestCache) lookup(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.fetched) >= c.ttl {
		return nil, false
	}
	return entry.data, true
}

func (c *RequestCache) store(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{data: data, fetched: c.now()}
}
