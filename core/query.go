package core

import (
	"fmt"
	"time"
)

// Strategy selects the base weight profile and retrieval emphasis for a
// request. It does not restrict which gatherers run; that is driven by the
// filters present on the query.
type Strategy string

const (
	// StrategySemantic favors topical similarity to the query text.
	StrategySemantic Strategy = "semantic"
	// StrategyTemporal favors proximity to the requested time range.
	StrategyTemporal Strategy = "temporal"
	// StrategyAffect favors emotional-state similarity.
	StrategyAffect Strategy = "affect"
	// StrategyHybrid balances all four signals; the default.
	StrategyHybrid Strategy = "hybrid"
)

// TimeRange bounds a temporal query. End must not precede Start; a zero-width
// range is legal and matches records at exactly Start.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// AffectContext describes the caller's emotional state on the circumplex
// model: Valence in [-1,1] (negative..positive), Arousal in [0,1] (calm..
// activated).
type AffectContext struct {
	Valence float64
	Arousal float64
}

// RetrievalQuery is the immutable per-request descriptor consumed by the
// retrieval engine. Construct one per request and do not mutate it afterward;
// all fields except UserID and Limit are optional.
type RetrievalQuery struct {
	// UserID scopes every backend read. Required.
	UserID string

	// QueryText enables semantic retrieval. Empty means "return everything"
	// (browse mode) subject to the other filters.
	QueryText string

	// MemoryTypes restricts results to the listed source types. Empty means
	// no restriction.
	MemoryTypes []SourceType

	// TimeRange enables temporal retrieval over event records.
	TimeRange *TimeRange

	// AffectContext enables affect-similarity retrieval.
	AffectContext *AffectContext

	// ImportanceThreshold drops results whose importance score falls below
	// the given value in [0,1].
	ImportanceThreshold *float64

	// Limit caps the number of returned results. Required, > 0.
	Limit int

	// Offset skips the first N already-ranked results for pagination.
	Offset int

	// Strategy picks the built-in base weight profile. Defaults to
	// StrategyHybrid when empty.
	Strategy Strategy

	// WeightOverrides replaces individual base weights by name ("semantic",
	// "temporal", "importance", "affect") before renormalization.
	WeightOverrides map[string]float64
}

// Validate checks the request invariants. Violations surface as
// ErrInvalidQuery and must not be retried.
func (q RetrievalQuery) Validate() error {
	if q.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidQuery, q.Limit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidQuery, q.Offset)
	}
	if q.TimeRange != nil && q.TimeRange.End.Before(q.TimeRange.Start) {
		return fmt.Errorf("%w: time range end precedes start", ErrInvalidQuery)
	}
	if th := q.ImportanceThreshold; th != nil && (*th < 0 || *th > 1) {
		return fmt.Errorf("%w: importance threshold %v outside [0,1]", ErrInvalidQuery, *th)
	}
	return nil
}

// EffectiveStrategy returns the requested strategy, defaulting to hybrid.
func (q RetrievalQuery) EffectiveStrategy() Strategy {
	if q.Strategy == "" {
		return StrategyHybrid
	}
	return q.Strategy
}

// WantsType reports whether the given source type passes the MemoryTypes
// filter. An empty filter admits every type.
func (q RetrievalQuery) WantsType(t SourceType) bool {
	if len(q.MemoryTypes) == 0 {
		return true
	}
	for _, mt := range q.MemoryTypes {
		if mt == t {
			return true
		}
	}
	return false
}

// HasFilters reports whether any retrieval filter beyond the user id is set.
// A query with neither text nor filters browses the most recent records.
func (q RetrievalQuery) HasFilters() bool {
	return len(q.MemoryTypes) > 0 || q.TimeRange != nil || q.AffectContext != nil || q.ImportanceThreshold != nil
}
