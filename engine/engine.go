package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/recallmesh/core"
	"github.com/hupe1980/recallmesh/logging"
	"github.com/hupe1980/recallmesh/ranking"
	"github.com/hupe1980/recallmesh/retrieval"
)

// Config defines tuning parameters for the retrieval pipeline.
type Config struct {
	// TopN caps the candidates requested from each strategy before merging.
	TopN int

	// StrategyTimeout bounds every strategy's backend reads for one request.
	// An expired strategy degrades like a failed one.
	StrategyTimeout time.Duration

	// CacheTTL is the backstop lifetime for cached result sets on the
	// no-filter path.
	CacheTTL time.Duration

	// DecayK is the recency decay constant. Empirical tuning value; see
	// ranking.DefaultDecayK.
	DecayK float64

	// AffectFloor discards affect matches at or below this value.
	AffectFloor float64

	// ProceduralBase is the fixed similarity assigned to skill records.
	ProceduralBase float64
}

// DefaultConfig provides production-ready defaults.
var DefaultConfig = Config{
	TopN:            50,
	StrategyTimeout: 2 * time.Second,
	CacheTTL:        5 * time.Minute,
	DecayK:          ranking.DefaultDecayK,
	AffectFloor:     retrieval.DefaultAffectFloor,
	ProceduralBase:  retrieval.DefaultProceduralBase,
}

// Options configures an Engine instance using the functional options pattern.
// Embedder, Vectors and Records are required; Cache is optional (no caching
// when nil) and Logger defaults to NoOp.
type Options struct {
	Config   Config
	Embedder core.Embedder
	Vectors  core.VectorStore
	Records  core.RecordStore
	Cache    core.ResultCache
	Logger   logging.Logger
}

// Engine is the retrieval orchestrator. Construct once at process start with
// concrete adapters; Retrieve is safe for concurrent use and holds no state
// across calls.
type Engine struct {
	cfg    Config
	cache  core.ResultCache
	scorer *ranking.Scorer
	logger *logging.RecallLogger

	semantic   retrieval.Strategy
	temporal   retrieval.Strategy
	affect     retrieval.Strategy
	procedural retrieval.Strategy
	browse     retrieval.Strategy
}

// New creates an Engine from options.
func New(optFns ...func(o *Options)) (*Engine, error) {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Embedder == nil {
		return nil, errors.New("engine: embedder is required")
	}
	if opts.Vectors == nil {
		return nil, errors.New("engine: vector store is required")
	}
	if opts.Records == nil {
		return nil, errors.New("engine: record store is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	cfg := opts.Config
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultConfig.TopN
	}
	if cfg.StrategyTimeout <= 0 {
		cfg.StrategyTimeout = DefaultConfig.StrategyTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig.CacheTTL
	}

	deps := retrieval.Deps{
		Embedder: opts.Embedder,
		Vectors:  opts.Vectors,
		Records:  opts.Records,
		Logger:   opts.Logger,
	}

	return &Engine{
		cfg:        cfg,
		cache:      opts.Cache,
		scorer:     ranking.NewScorer(cfg.DecayK),
		logger:     logging.NewRecallLogger(opts.Logger).WithComponent("engine"),
		semantic:   retrieval.NewSemantic(deps, cfg.TopN),
		temporal:   retrieval.NewTemporal(deps, cfg.TopN),
		affect:     retrieval.NewAffect(deps, cfg.TopN, cfg.AffectFloor),
		procedural: retrieval.NewProcedural(deps, cfg.TopN, cfg.ProceduralBase),
		browse:     retrieval.NewBrowse(deps, cfg.TopN),
	}, nil
}

// cachePayload is the whole-entry serialization stored in the result cache:
// the full ranked, filtered list before pagination.
type cachePayload struct {
	Results []core.ScoredResult `json:"results"`
	Total   int                 `json:"total"`
}

// Retrieve runs the full pipeline for one request and returns the ranked,
// paginated results. Partial strategy failures shrink the result set; only a
// request where every strategy failed returns ErrBackendUnavailable.
// Cancellation of ctx returns ErrCanceled.
func (e *Engine) Retrieve(ctx context.Context, q core.RetrievalQuery) ([]core.ScoredResult, core.Pagination, error) {
	start := time.Now()
	logger := e.logger.WithRequest(q.UserID, uuid.NewString())

	if err := q.Validate(); err != nil {
		return nil, core.Pagination{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, core.Pagination{}, fmt.Errorf("%w: %v", core.ErrCanceled, err)
	}

	// Only the default-profile browse path is cacheable: weight overrides and
	// non-default strategies change the ranking per request, so their results
	// must never be shared through a key that ignores them.
	cacheable := e.cache != nil && q.QueryText == "" && !q.HasFilters() &&
		len(q.WeightOverrides) == 0 && q.EffectiveStrategy() == core.StrategyHybrid
	var key string
	if cacheable {
		began := time.Now()
		ns, err := e.cache.Namespace(ctx, q.UserID)
		logger.LogBackendCall("result_cache", "namespace", time.Since(began), err)
		if err == nil {
			key = cacheKey(q.UserID, q.QueryText, ns)
			began = time.Now()
			raw, found, getErr := e.cache.Get(ctx, key)
			logger.LogBackendCall("result_cache", "get", time.Since(began), getErr)
			if getErr == nil && found {
				var payload cachePayload
				if err := json.Unmarshal(raw, &payload); err == nil {
					results, page := paginate(payload.Results, q.Limit, q.Offset, payload.Total)
					logger.LogRetrieve(0, len(results), payload.Total, time.Since(start), true, nil)
					return results, page, nil
				}
			}
		} else {
			cacheable = false
		}
	}

	strategies := e.selectStrategies(q)

	merged, failures := e.gather(ctx, strategies, q, logger)
	if err := ctx.Err(); err != nil {
		return nil, core.Pagination{}, fmt.Errorf("%w: %v", core.ErrCanceled, err)
	}
	if len(failures) == len(strategies) && len(strategies) > 0 {
		errs := make([]error, 0, len(failures))
		for _, f := range failures {
			errs = append(errs, f)
		}
		err := fmt.Errorf("%w: %v", core.ErrBackendUnavailable, errors.Join(errs...))
		logger.LogRetrieve(len(strategies), 0, 0, time.Since(start), false, err)
		return nil, core.Pagination{}, err
	}

	profile := ranking.Resolve(q.EffectiveStrategy(), q.WeightOverrides)
	deduped := ranking.Dedupe(merged)
	scored := e.scorer.ScoreAll(deduped, profile)
	scored = applyFilters(scored, q)
	core.SortResults(scored)
	total := len(scored)

	if cacheable && key != "" {
		if raw, err := json.Marshal(cachePayload{Results: scored, Total: total}); err == nil {
			began := time.Now()
			setErr := e.cache.Set(ctx, key, raw, e.cfg.CacheTTL)
			logger.LogBackendCall("result_cache", "set", time.Since(began), setErr)
		}
	}

	results, page := paginate(scored, q.Limit, q.Offset, total)
	if len(failures) > 0 {
		logger = logger.WithContext("failed_strategies", len(failures))
	}
	logger.LogRetrieve(len(strategies), len(results), total, time.Since(start), false, nil)
	return results, page, nil
}

// selectStrategies maps the query's filters onto the strategies that run:
// query text implies semantic, a time range implies temporal, an affect
// context implies affect; procedural always runs unless the type filter
// excludes it. A query without text falls back to browse unless a time range
// or affect context already targets the gathering, or the type filter asks
// for procedural records only; type and importance filters narrow the
// browsed set afterwards instead of suppressing gathering.
func (e *Engine) selectStrategies(q core.RetrievalQuery) []retrieval.Strategy {
	var strategies []retrieval.Strategy
	if q.QueryText != "" {
		strategies = append(strategies, e.semantic)
	} else if q.TimeRange == nil && q.AffectContext == nil && !wantsOnlyProcedural(q) {
		strategies = append(strategies, e.browse)
	}
	if q.TimeRange != nil {
		strategies = append(strategies, e.temporal)
	}
	if q.AffectContext != nil {
		strategies = append(strategies, e.affect)
	}
	if q.WantsType(core.SourceProcedural) {
		strategies = append(strategies, e.procedural)
	}
	return strategies
}

// wantsOnlyProcedural reports whether the type filter admits procedural
// records and nothing else, in which case the procedural strategy alone
// covers the request.
func wantsOnlyProcedural(q core.RetrievalQuery) bool {
	if len(q.MemoryTypes) == 0 {
		return false
	}
	for _, t := range q.MemoryTypes {
		if t != core.SourceProcedural {
			return false
		}
	}
	return true
}

// gather fans the strategies out concurrently under the per-request deadline
// and merges their candidates back in declaration order, keeping the merge
// deterministic regardless of completion order. Failed strategies contribute
// zero candidates and are returned for observability.
func (e *Engine) gather(ctx context.Context, strategies []retrieval.Strategy, q core.RetrievalQuery, logger *logging.RecallLogger) ([]core.Candidate, []*core.StrategyError) {
	gatherCtx, cancel := context.WithTimeout(ctx, e.cfg.StrategyTimeout)
	defer cancel()

	type outcome struct {
		candidates []core.Candidate
		err        error
	}
	outcomes := make([]outcome, len(strategies))

	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(i int, s retrieval.Strategy) {
			defer wg.Done()
			began := time.Now()
			candidates, err := s.Gather(gatherCtx, q)
			logger.LogStrategyRun(s.Name(), len(candidates), time.Since(began), err)
			if err != nil {
				outcomes[i] = outcome{err: err}
				return
			}
			outcomes[i] = outcome{candidates: candidates}
		}(i, s)
	}
	wg.Wait()

	var (
		merged   []core.Candidate
		failures []*core.StrategyError
	)
	for i, o := range outcomes {
		if o.err != nil {
			failures = append(failures, &core.StrategyError{Strategy: strategies[i].Name(), Err: o.err})
			continue
		}
		merged = append(merged, o.candidates...)
	}
	return merged, failures
}

// applyFilters enforces the conjunctive post-filters: memory types and the
// importance threshold.
func applyFilters(results []core.ScoredResult, q core.RetrievalQuery) []core.ScoredResult {
	if len(q.MemoryTypes) == 0 && q.ImportanceThreshold == nil {
		return results
	}
	out := results[:0]
	for _, r := range results {
		if !q.WantsType(r.SourceType) {
			continue
		}
		if q.ImportanceThreshold != nil && r.ImportanceScore < *q.ImportanceThreshold {
			continue
		}
		out = append(out, r)
	}
	return out
}

// paginate slices the ranked list to the requested window.
func paginate(results []core.ScoredResult, limit, offset, total int) ([]core.ScoredResult, core.Pagination) {
	page := core.Pagination{Limit: limit, Offset: offset, Total: total}
	if offset >= len(results) {
		return nil, page
	}
	results = results[offset:]
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, page
}
