package retrieval

import (
	"context"
	"fmt"
	"math"

	"github.com/hupe1980/recallmesh/core"
)

// Temporal retrieves event records inside the query's time range. Range
// proximity stands in for similarity: records at the range start score 1,
// decaying linearly toward the far end.
type Temporal struct {
	deps Deps
	topN int
}

// NewTemporal constructs the temporal strategy.
func NewTemporal(deps Deps, topN int) *Temporal {
	return &Temporal{deps: deps, topN: topN}
}

// Name implements Strategy.
func (t *Temporal) Name() string { return NameTemporal }

// Gather implements Strategy. It is a no-op for queries without a time range.
func (t *Temporal) Gather(ctx context.Context, q core.RetrievalQuery) ([]core.Candidate, error) {
	if q.TimeRange == nil {
		return nil, nil
	}
	tr := *q.TimeRange

	rows, err := t.deps.Records.QueryEvents(ctx, q.UserID, core.EventFilter{
		Start: &tr.Start,
		End:   &tr.End,
		Limit: t.topN,
	})
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	width := tr.End.Sub(tr.Start).Seconds()
	candidates := make([]core.Candidate, 0, len(rows))
	for _, row := range rows {
		proximity := 1.0
		if width > 0 {
			proximity = clamp01(1 - math.Abs(row.OccurredAt.Sub(tr.Start).Seconds())/width)
		}
		candidates = append(candidates, core.Candidate{
			ID:            row.ID,
			SourceType:    core.SourceEpisodic,
			Content:       row.Content,
			RawSimilarity: floatPtr(proximity),
			RawRecency:    timePtr(row.OccurredAt),
			RawImportance: floatPtr(row.Importance),
			Metadata:      row.Metadata,
		})
	}
	return candidates, nil
}
