package resultcache

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/recallmesh/core"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryCache is a volatile ResultCache backed by a process-local map with
// lazy TTL expiry. Safe for concurrent access; values are copied on read and
// write so cached entries are never mutated in place.
type InMemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	namespaces map[string]uint64
	now        func() time.Time
}

// NewInMemoryCache constructs an empty in-memory result cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		entries:    make(map[string]entry),
		namespaces: make(map[string]uint64),
		now:        time.Now,
	}
}

// Get implements core.ResultCache. Expired entries read as misses.
func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set implements core.ResultCache.
func (c *InMemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:     append([]byte(nil), value...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Namespace implements core.ResultCache.
func (c *InMemoryCache) Namespace(_ context.Context, userID string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.namespaces[userID], nil
}

// BumpNamespace implements core.ResultCache. Old keys become unaddressable;
// their entries age out via TTL.
func (c *InMemoryCache) BumpNamespace(_ context.Context, userID string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.namespaces[userID]++
	return c.namespaces[userID], nil
}

var _ core.ResultCache = (*InMemoryCache)(nil)
