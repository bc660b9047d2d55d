package retrieval

import (
	"context"
	"time"

	"github.com/hupe1980/recallmesh/core"
	"github.com/hupe1980/recallmesh/logging"
)

// Strategy names used for logging and per-strategy error reporting.
const (
	NameSemantic   = "semantic"
	NameTemporal   = "temporal"
	NameAffect     = "affect"
	NameProcedural = "procedural"
	NameBrowse     = "browse"
)

// Strategy gathers unscored candidates from one slice of the data. A failed
// Gather degrades the request (zero candidates from this strategy); it never
// aborts the whole retrieval on its own.
type Strategy interface {
	// Name identifies the strategy in logs and StrategyErrors.
	Name() string

	// Gather returns the strategy's candidates for the query. Candidates are
	// never partially scored.
	Gather(ctx context.Context, q core.RetrievalQuery) ([]core.Candidate, error)
}

// Deps bundles the backend contracts a strategy may read from. Unused fields
// may be left nil for strategies that do not touch them.
type Deps struct {
	Embedder core.Embedder
	Vectors  core.VectorStore
	Records  core.RecordStore
	Logger   logging.Logger
}

func (d Deps) logger() logging.Logger {
	if d.Logger == nil {
		return logging.NoOpLogger{}
	}
	return d.Logger
}

func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
