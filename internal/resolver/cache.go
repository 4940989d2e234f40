// ABOUTME: TTL-bounded cache of resolved agent records
// ABOUTME: Expired entries are treated as absent and purged lazily on access

package resolver

import (
	"sync"
	"time"

	"github.com/agentmcp/agentnet/internal/handle"
)

// DefaultCacheTTL is how long a resolved record stays fresh.
const DefaultCacheTTL = 300 * time.Second

// cacheEntry pairs a record with the time it was cached.
type cacheEntry struct {
	record   handle.Record
	cachedAt time.Time
}

// Cache is a mutex-protected map from normalized handle to resolved record.
// An entry is valid iff now - cachedAt < ttl; expired entries are removed on
// the next access that observes them.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given TTL. A zero ttl selects the
// default. The clock is overridable for tests via WithClock.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the cache's time source. Test hook.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the cached record for key if it is still fresh. An expired
// entry is evicted and reported as a miss.
func (c *Cache) Get(key string) (handle.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return handle.Record{}, false
	}
	if c.now().Sub(entry.cachedAt) >= c.ttl {
		delete(c.entries, key)
		return handle.Record{}, false
	}
	return entry.record, true
}

// Put stores a record under key, stamped with the current time. A concurrent
// duplicate put is benign: records are immutable value copies, last write
// wins.
func (c *Cache) Put(key string, rec handle.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{record: rec, cachedAt: c.now()}
}

// Len returns the number of entries currently held, including any that have
// expired but not yet been observed.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
