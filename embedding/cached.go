package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/recallmesh/core"
)

const defaultCacheSize = 1024

// CachedEmbedder decorates another Embedder with an LRU cache keyed by the
// exact input text. Embeddings are deterministic per provider, so repeated
// queries skip the upstream call entirely. Returned vectors are copies;
// callers may mutate them freely.
type CachedEmbedder struct {
	inner core.Embedder
	cache *lru.Cache[string, []float64]
}

// NewCachedEmbedder wraps inner with a cache of the given size (default 1024
// when non-positive).
func NewCachedEmbedder(inner core.Embedder, size int) (*CachedEmbedder, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, err
	}
	return &CachedEmbedder{inner: inner, cache: cache}, nil
}

// Embed implements core.Embedder. Failures are never cached.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if vec, ok := e.cache.Get(text); ok {
		return append([]float64(nil), vec...), nil
	}
	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Add(text, append([]float64(nil), vec...))
	return vec, nil
}

// Len reports the number of cached embeddings.
func (e *CachedEmbedder) Len() int { return e.cache.Len() }

var _ core.Embedder = (*CachedEmbedder)(nil)
