package storage

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached document is served without a read.
const DefaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	expires time.Time
	body    []byte
}

// DocumentCache keeps recently read documents in memory for a fixed TTL.
// It holds encoded bodies, so every reader decodes its own copy. There is no
// invalidation across processes: another process sees a write only once its
// own entry expires.
type DocumentCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	ttl     time.Duration
	mu      sync.RWMutex
}

// NewDocumentCache creates a cache. A nil now uses time.Now; a ttl of zero or
// less disables caching.
func NewDocumentCache(ttl time.Duration, now func() time.Time) *DocumentCache {
	if now == nil {
		now = time.Now
	}
	return &DocumentCache{
		entries: make(map[string]cacheEntry),
		now:     now,
		ttl:     ttl,
	}
}

// Get returns the cached body for id if it has not expired.
func (c *DocumentCache) Get(id string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok || !c.now().Before(entry.expires) {
		return nil, false
	}
	return entry.body, true
}

// Put caches body under id.
func (c *DocumentCache) Put(id string, body []byte) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = cacheEntry{body: body, expires: c.now().Add(c.ttl)}
}

// Invalidate drops the entry for id.
func (c *DocumentCache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
}

// Clear drops every entry.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of entries, expired ones included.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
