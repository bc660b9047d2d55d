package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recallmesh/core"
	"github.com/hupe1980/recallmesh/embedding"
	"github.com/hupe1980/recallmesh/internal/testutil"
	"github.com/hupe1980/recallmesh/logging"
	"github.com/hupe1980/recallmesh/recordstore"
	"github.com/hupe1980/recallmesh/resultcache"
	"github.com/hupe1980/recallmesh/vectorstore"
)

// failingEmbedder always errors, degrading the semantic strategy.
type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float64, error) {
	return nil, errors.New("embedding service unreachable")
}

// failingRecords errors on every family read.
type failingRecords struct{}

func (failingRecords) QueryEvents(context.Context, string, core.EventFilter) ([]core.EventRow, error) {
	return nil, errors.New("records unreachable")
}

func (failingRecords) QueryAffect(context.Context, string, core.AffectFilter) ([]core.AffectRow, error) {
	return nil, errors.New("records unreachable")
}

func (failingRecords) QuerySkills(context.Context, string, core.SkillFilter) ([]core.SkillRow, error) {
	return nil, errors.New("records unreachable")
}

type fixture struct {
	engine  *Engine
	vectors *vectorstore.InMemoryStore
	records *recordstore.InMemoryStore
	cache   *resultcache.InMemoryCache
}

func newFixture(t *testing.T, optFns ...func(o *Options)) *fixture {
	t.Helper()
	f := &fixture{
		vectors: vectorstore.NewInMemoryStore(),
		records: recordstore.NewInMemoryStore(),
		cache:   resultcache.NewInMemoryCache(),
	}
	fns := append([]func(o *Options){func(o *Options) {
		o.Embedder = embedding.NewHashEmbedder(32)
		o.Vectors = f.vectors
		o.Records = f.records
		o.Cache = f.cache
	}}, optFns...)
	eng, err := New(fns...)
	require.NoError(t, err)
	f.engine = eng
	return f
}

func (f *fixture) addEvent(t *testing.T, id string, at time.Time, importance float64) {
	t.Helper()
	_, err := f.records.AddEvent(context.Background(), core.EventRow{
		ID: id, UserID: "u1", Content: "event " + id, OccurredAt: at, Importance: importance,
	})
	require.NoError(t, err)
}

func TestRetrieve_InvalidQuery(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{Limit: 10})
	assert.ErrorIs(t, err, core.ErrInvalidQuery)

	_, _, err = f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1"})
	assert.ErrorIs(t, err, core.ErrInvalidQuery)
}

func TestRetrieve_CanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := f.engine.Retrieve(ctx, core.RetrievalQuery{UserID: "u1", Limit: 10})
	assert.ErrorIs(t, err, core.ErrCanceled)
}

func TestRetrieve_BrowseMostRecentFirst(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.addEvent(t, "today", now, 0.5)
	f.addEvent(t, "yesterday", now.Add(-24*time.Hour), 0.5)
	f.addEvent(t, "last_week", now.Add(-8*24*time.Hour), 0.5)

	results, page, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 3, page.Total)

	assert.Equal(t, "today", results[0].ID)
	assert.Equal(t, "yesterday", results[1].ID)
	assert.Equal(t, "last_week", results[2].ID)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestRetrieve_PartialDegradationStillSucceeds(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Embedder = failingEmbedder{} })
	_, err := f.records.AddSkill(context.Background(), core.SkillRow{
		ID: "skill_1", UserID: "u1", Skill: "pour over", LastPracticed: time.Now(), SuccessRate: 0.9,
	})
	require.NoError(t, err)

	// Query text selects the semantic strategy, whose embedder is down; the
	// procedural strategy still delivers.
	results, page, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1", QueryText: "coffee", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "skill_1", results[0].ID)
	assert.Equal(t, 1, page.Total)
}

func TestRetrieve_AllStrategiesFailing(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Embedder = failingEmbedder{}
		o.Records = failingRecords{}
	})

	_, _, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1", QueryText: "coffee", Limit: 10})
	assert.ErrorIs(t, err, core.ErrBackendUnavailable)
}

func TestRetrieve_ZeroMatchesIsNotAnError(t *testing.T) {
	f := newFixture(t)
	results, page, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "nobody", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, page.Total)
}

func TestRetrieve_CrossStoreDedupe(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	imp := 0.5
	require.NoError(t, f.vectors.Add(context.Background(), "u1", vectorstore.Entry{
		ID: "mem_1", Content: "dinner with Sam", Vector: []float64{1, 0, 0},
		CreatedAt: now, Importance: &imp, SecondaryID: "epi_9",
	}))
	f.addEvent(t, "epi_9", now, 0.5)

	results, page, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "mem_1", results[0].ID)
	assert.Equal(t, 1, page.Total)
}

func TestRetrieve_TypeFilter(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.addEvent(t, "epi_1", now, 0.5)
	_, err := f.records.AddSkill(context.Background(), core.SkillRow{
		ID: "skill_1", UserID: "u1", Skill: "x", LastPracticed: now, SuccessRate: 0.5,
	})
	require.NoError(t, err)

	results, _, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{
		UserID: "u1", Limit: 10, MemoryTypes: []core.SourceType{core.SourceEpisodic},
		TimeRange: &core.TimeRange{Start: now.Add(-time.Hour), End: now.Add(time.Hour)},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "epi_1", results[0].ID)
}

func TestRetrieve_ImportanceThreshold(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.addEvent(t, "important", now, 0.9)
	f.addEvent(t, "trivial", now.Add(-time.Minute), 0.1)

	th := 0.5
	results, page, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{
		UserID: "u1", Limit: 10, ImportanceThreshold: &th,
		TimeRange: &core.TimeRange{Start: now.Add(-time.Hour), End: now.Add(time.Hour)},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "important", results[0].ID)
	assert.Equal(t, 1, page.Total)
}

func TestRetrieve_Pagination(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	for i, id := range []string{"e1", "e2", "e3", "e4", "e5"} {
		f.addEvent(t, id, now.Add(-time.Duration(i)*time.Hour), 0.5)
	}

	first, page, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 5, page.Total)

	second, page, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1", Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, 5, page.Total)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	tail, page, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1", Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, tail)
	assert.Equal(t, 5, page.Total)
}

func TestRetrieve_CacheServesUntilNamespaceBump(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.addEvent(t, "first", now.Add(-time.Hour), 0.5)

	results, _, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// A new fact lands without a namespace bump: the cached entry is still
	// addressable, so the stale result set is served.
	f.addEvent(t, "second", now, 0.5)
	stale, _, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	// The write path bumps the namespace; old keys stop being addressable.
	_, err = f.cache.BumpNamespace(context.Background(), "u1")
	require.NoError(t, err)
	fresh, _, err := f.engine.Retrieve(context.Background(), core.RetrievalQuery{UserID: "u1", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestRetrieve_FilteredQueriesBypassCache(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.addEvent(t, "e1", now, 0.5)

	q := core.RetrievalQuery{
		UserID: "u1", Limit: 10,
		TimeRange: &core.TimeRange{Start: now.Add(-time.Hour), End: now.Add(time.Hour)},
	}
	_, _, err := f.engine.Retrieve(context.Background(), q)
	require.NoError(t, err)

	// Filtered reads skip the cache entirely: new data shows up immediately.
	f.addEvent(t, "e2", now, 0.5)
	results, _, err := f.engine.Retrieve(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRetrieve_TypeOnlyFilterStillBrowses(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.addEvent(t, "epi_1", now, 0.5)
	_, err := f.records.AddSkill(context.Background(), core.SkillRow{
		ID: "skill_1", UserID: "u1", Skill: "x", LastPracticed: now, SuccessRate: 0.5,
	})
	require.NoError(t, err)

	// A bare type filter has no text, time range or affect context; gathering
	// still happens and the post-filter narrows the set.
	results, page, err := f.engine.Retrieve(context.Background(),
		testutil.NewQueryBuilder("u1").Types(core.SourceEpisodic).Build())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "epi_1", results[0].ID)
	assert.Equal(t, 1, page.Total)

	// A procedural-only filter is served by the procedural strategy alone.
	results, _, err = f.engine.Retrieve(context.Background(),
		testutil.NewQueryBuilder("u1").Types(core.SourceProcedural).Build())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "skill_1", results[0].ID)
}

func TestRetrieve_WeightOverridesBypassCache(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.addEvent(t, "old_important", now.Add(-10*24*time.Hour), 1.0)
	f.addEvent(t, "new_trivial", now.Add(-time.Hour), 0.0)

	// Importance-heavy profile ranks the old important event first.
	results, _, err := f.engine.Retrieve(context.Background(),
		testutil.NewQueryBuilder("u1").Overrides(map[string]float64{"importance": 5}).Build())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "old_important", results[0].ID)

	// The same browse shape under a temporal-heavy profile must be re-ranked,
	// not served from a cache entry keyed without the weights.
	results, _, err = f.engine.Retrieve(context.Background(),
		testutil.NewQueryBuilder("u1").Overrides(map[string]float64{"temporal": 5}).Build())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "new_trivial", results[0].ID)
}

func TestRetrieve_NonDefaultStrategyBypassesCache(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.addEvent(t, "e1", now.Add(-time.Hour), 0.5)

	q := testutil.NewQueryBuilder("u1").Strategy(core.StrategyTemporal).Build()
	results, _, err := f.engine.Retrieve(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Non-default profiles never populate the cache, so new data shows up
	// immediately.
	f.addEvent(t, "e2", now, 0.5)
	results, _, err = f.engine.Retrieve(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

// recordingLogger captures log messages; gather logs from goroutines, so it
// locks.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingLogger) log(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recordingLogger) Debug(msg string, _ ...any) { r.log(msg) }
func (r *recordingLogger) Info(msg string, _ ...any)  { r.log(msg) }
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.log(msg) }
func (r *recordingLogger) Error(msg string, _ ...any) { r.log(msg) }

var _ logging.Logger = (*recordingLogger)(nil)

func TestRetrieve_EmitsDomainLogs(t *testing.T) {
	rec := &recordingLogger{}
	f := newFixture(t, func(o *Options) { o.Logger = rec })
	f.addEvent(t, "e1", time.Now(), 0.5)

	_, _, err := f.engine.Retrieve(context.Background(), testutil.NewQueryBuilder("u1").Build())
	require.NoError(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Contains(t, rec.messages, "Strategy completed")
	assert.Contains(t, rec.messages, "Retrieval completed")
}

func TestNew_RequiresBackends(t *testing.T) {
	_, err := New()
	require.Error(t, err)

	_, err = New(func(o *Options) {
		o.Embedder = embedding.NewHashEmbedder(8)
	})
	require.Error(t, err)
}
