package resultcache

import (
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/hupe1980/recallmesh/core"
)

const (
	defaultNumCounters = 1e6      // counters for the admission policy
	defaultMaxCost     = 64 << 20 // 64MB of cached result sets
	defaultBufferItems = 64
)

// RistrettoConfig tunes the ristretto-backed cache. Zero values fall back to
// the package defaults.
type RistrettoConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
}

// RistrettoCache is a high-throughput ResultCache backed by ristretto with
// cost-based eviction. Namespace versions live beside the cache in a small
// mutex-guarded map; they are bookkeeping, not cached data, and must not be
// evictable.
type RistrettoCache struct {
	cache *ristretto.Cache

	mu         sync.Mutex
	namespaces map[string]uint64
}

// NewRistrettoCache constructs the cache, applying defaults for zero config
// fields.
func NewRistrettoCache(cfg RistrettoConfig) (*RistrettoCache, error) {
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = defaultNumCounters
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = defaultMaxCost
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = defaultBufferItems
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoCache{cache: cache, namespaces: make(map[string]uint64)}, nil
}

// Get implements core.ResultCache.
func (c *RistrettoCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, found := c.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

// Set implements core.ResultCache. The entry's cost is its byte length.
func (c *RistrettoCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := append([]byte(nil), value...)
	c.cache.SetWithTTL(key, stored, int64(len(stored)), ttl)
	return nil
}

// Namespace implements core.ResultCache.
func (c *RistrettoCache) Namespace(_ context.Context, userID string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.namespaces[userID], nil
}

// BumpNamespace implements core.ResultCache.
func (c *RistrettoCache) BumpNamespace(_ context.Context, userID string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.namespaces[userID]++
	return c.namespaces[userID], nil
}

// Wait blocks until buffered writes are applied. Tests use it to make Set
// effects visible before asserting on Get.
func (c *RistrettoCache) Wait() { c.cache.Wait() }

// Close releases the cache's internal resources.
func (c *RistrettoCache) Close() { c.cache.Close() }

var _ core.ResultCache = (*RistrettoCache)(nil)
