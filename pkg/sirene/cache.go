package sirene

import (
	"sync"
	"time"
)

// cacheEntry holds the last-known lookup outcome for one identifier. A nil
// record marks a confirmed not-found.
type cacheEntry struct {
	rec      *Record
	cachedAt time.Time
}

// ttlCache is a concurrency-safe map of identifier to lookup outcome.
// Entries expire by age, never by size: the identifier population per tenant
// is low-cardinality.
type ttlCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	nowFunc func() time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		nowFunc: time.Now,
	}
}

// get returns the cached record, whether the registry had the identifier,
// and whether there was a fresh cache entry at all.
func (c *ttlCache) get(key string) (rec *Record, found bool, hit bool) {
	if c.ttl <= 0 {
		return nil, false, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.nowFunc().Sub(e.cachedAt) > c.ttl {
		return nil, false, false
	}
	return e.rec, e.rec != nil, true
}

// set stores a lookup outcome and opportunistically drops expired entries.
func (c *ttlCache) set(key string, rec *Record) {
	if c.ttl <= 0 {
		return
	}

	now := c.nowFunc()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if now.Sub(e.cachedAt) > c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{rec: rec, cachedAt: now}
}
