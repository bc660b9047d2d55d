package retrieval

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/recallmesh/core"
)

// DefaultAffectFloor is the empirical discard threshold for affect matches.
// Candidates at or below it are below-threshold noise.
const DefaultAffectFloor = 0.3

// floorEpsilon absorbs float64 rounding in the match arithmetic so inputs
// whose true match sits exactly on the floor are discarded, not kept by a
// representation error.
const floorEpsilon = 1e-9

// Affect retrieves records whose stored emotional state resembles the
// caller's. It reads the affect family plus event records carrying affect
// fields, scoring each by circumplex proximity and discarding weak matches.
type Affect struct {
	deps  Deps
	topN  int
	floor float64
}

// NewAffect constructs the affect strategy. A non-positive floor falls back
// to DefaultAffectFloor.
func NewAffect(deps Deps, topN int, floor float64) *Affect {
	if floor <= 0 {
		floor = DefaultAffectFloor
	}
	return &Affect{deps: deps, topN: topN, floor: floor}
}

// Name implements Strategy.
func (a *Affect) Name() string { return NameAffect }

// match maps valence/arousal deltas to [..,1]: 1 - (|dv| + |da|) / 2.
func (a *Affect) match(want core.AffectContext, valence, arousal float64) float64 {
	return 1 - (math.Abs(want.Valence-valence)+math.Abs(want.Arousal-arousal))/2
}

// Gather implements Strategy. It is a no-op for queries without an affect
// context.
func (a *Affect) Gather(ctx context.Context, q core.RetrievalQuery) ([]core.Candidate, error) {
	if q.AffectContext == nil {
		return nil, nil
	}
	want := *q.AffectContext

	rows, err := a.deps.Records.QueryAffect(ctx, q.UserID, core.AffectFilter{Limit: a.topN})
	if err != nil {
		return nil, fmt.Errorf("query affect: %w", err)
	}

	var candidates []core.Candidate
	for _, row := range rows {
		m := a.match(want, row.Valence, row.Arousal)
		if m <= a.floor+floorEpsilon {
			continue
		}
		candidates = append(candidates, core.Candidate{
			ID:             row.ID,
			SourceType:     core.SourceAffective,
			Content:        row.Content,
			RawAffectMatch: floatPtr(m),
			RawRecency:     timePtr(row.RecordedAt),
			RawImportance:  floatPtr(row.Importance),
			Metadata:       row.Metadata,
		})
	}

	// Event records tagged with a mood at write time participate too.
	events, err := a.deps.Records.QueryEvents(ctx, q.UserID, core.EventFilter{Limit: a.topN})
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	for _, row := range events {
		if row.Valence == nil || row.Arousal == nil {
			continue
		}
		m := a.match(want, *row.Valence, *row.Arousal)
		if m <= a.floor+floorEpsilon {
			continue
		}
		candidates = append(candidates, core.Candidate{
			ID:             row.ID,
			SourceType:     core.SourceEpisodic,
			Content:        row.Content,
			RawAffectMatch: floatPtr(m),
			RawRecency:     timePtr(row.OccurredAt),
			RawImportance:  floatPtr(row.Importance),
			Metadata:       row.Metadata,
		})
	}
	return candidates, nil
}
