package retrieval

import (
	"context"

	"github.com/hupe1980/recallmesh/core"
)

// fakeEmbedder returns a canned vector or error.
type fakeEmbedder struct {
	vector []float64
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

// fakeVectors serves canned matches and records the arguments it saw.
type fakeVectors struct {
	queryMatches []core.VectorMatch
	queryErr     error
	scanMatches  []core.VectorMatch
	scanErr      error

	lastQueryUser  string
	lastQueryLimit int
}

func (f *fakeVectors) Query(_ context.Context, userID string, _ []float64, limit int, _ map[string]string) ([]core.VectorMatch, error) {
	f.lastQueryUser = userID
	f.lastQueryLimit = limit
	return f.queryMatches, f.queryErr
}

func (f *fakeVectors) Scan(context.Context, string, map[string]string, int, int) ([]core.VectorMatch, error) {
	return f.scanMatches, f.scanErr
}

// fakeRecords serves canned rows per family and records the event filter.
type fakeRecords struct {
	events    []core.EventRow
	eventsErr error
	affect    []core.AffectRow
	affectErr error
	skills    []core.SkillRow
	skillsErr error

	lastEventFilter core.EventFilter
}

func (f *fakeRecords) QueryEvents(_ context.Context, _ string, filter core.EventFilter) ([]core.EventRow, error) {
	f.lastEventFilter = filter
	return f.events, f.eventsErr
}

func (f *fakeRecords) QueryAffect(context.Context, string, core.AffectFilter) ([]core.AffectRow, error) {
	return f.affect, f.affectErr
}

func (f *fakeRecords) QuerySkills(context.Context, string, core.SkillFilter) ([]core.SkillRow, error) {
	return f.skills, f.skillsErr
}

var (
	_ core.Embedder    = (*fakeEmbedder)(nil)
	_ core.VectorStore = (*fakeVectors)(nil)
	_ core.RecordStore = (*fakeRecords)(nil)
)
