// Package recallmesh provides a high-level façade over the retrieval engine
// and its pluggable backends (embedder, vector store, record store, result
// cache & logging) for building personalization memory services. Most
// applications interact with this package by:
//  1. Creating a RecallMesh via New() (optionally overriding default
//     in-memory backends)
//  2. Writing records through the chosen store implementations
//  3. Calling Retrieve with a core.RetrievalQuery per request
//
// The façade delegates orchestration to engine.Engine while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply durable stores, a real
// embedding service and a structured logger.
package recallmesh

import (
	"context"

	"github.com/hupe1980/recallmesh/core"
	"github.com/hupe1980/recallmesh/embedding"
	"github.com/hupe1980/recallmesh/engine"
	"github.com/hupe1980/recallmesh/logging"
	"github.com/hupe1980/recallmesh/recordstore"
	"github.com/hupe1980/recallmesh/resultcache"
	"github.com/hupe1980/recallmesh/vectorstore"
)

// Options configures the RecallMesh instance.
type Options struct {
	// Engine configuration (per-strategy caps, timeouts, tuning constants).
	EngineConfig engine.Config

	// Backends (default to in-memory implementations if not provided).
	Embedder core.Embedder
	Vectors  core.VectorStore
	Records  core.RecordStore
	Cache    core.ResultCache

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// RecallMesh is the high-level façade aggregating the engine and backends.
type RecallMesh struct {
	opts   Options
	engine *engine.Engine
}

// New creates a RecallMesh instance with optional overrides. Any unset
// backend is initialized with an in-memory implementation and the
// deterministic hash embedder.
func New(optFns ...func(o *Options)) (*RecallMesh, error) {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Embedder:     embedding.NewHashEmbedder(0),
		Vectors:      vectorstore.NewInMemoryStore(),
		Records:      recordstore.NewInMemoryStore(),
		Cache:        resultcache.NewInMemoryCache(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	eng, err := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Embedder = opts.Embedder
		o.Vectors = opts.Vectors
		o.Records = opts.Records
		o.Cache = opts.Cache
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &RecallMesh{opts: opts, engine: eng}, nil
}

// Retrieve runs one ranked retrieval request.
func (m *RecallMesh) Retrieve(ctx context.Context, q core.RetrievalQuery) ([]core.ScoredResult, core.Pagination, error) {
	return m.engine.Retrieve(ctx, q)
}

// Embedder returns the configured embedder.
func (m *RecallMesh) Embedder() core.Embedder { return m.opts.Embedder }

// Vectors returns the configured vector store.
func (m *RecallMesh) Vectors() core.VectorStore { return m.opts.Vectors }

// Records returns the configured record store.
func (m *RecallMesh) Records() core.RecordStore { return m.opts.Records }

// Cache returns the configured result cache.
func (m *RecallMesh) Cache() core.ResultCache { return m.opts.Cache }
