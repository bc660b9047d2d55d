package retrieval

import (
	"context"
	"fmt"

	"github.com/hupe1980/recallmesh/core"
)

// DefaultProceduralBase is the fixed similarity assigned to skill records.
// Skills are retrieved by presence, not by query match, so every one gets the
// same base and recency plus success rate drive the ranking.
const DefaultProceduralBase = 0.7

// Procedural lists the user's skill and practice records.
type Procedural struct {
	deps Deps
	topN int
	base float64
}

// NewProcedural constructs the procedural strategy. A non-positive base falls
// back to DefaultProceduralBase.
func NewProcedural(deps Deps, topN int, base float64) *Procedural {
	if base <= 0 {
		base = DefaultProceduralBase
	}
	return &Procedural{deps: deps, topN: topN, base: base}
}

// Name implements Strategy.
func (p *Procedural) Name() string { return NameProcedural }

// Gather implements Strategy.
func (p *Procedural) Gather(ctx context.Context, q core.RetrievalQuery) ([]core.Candidate, error) {
	rows, err := p.deps.Records.QuerySkills(ctx, q.UserID, core.SkillFilter{Limit: p.topN})
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}

	candidates := make([]core.Candidate, 0, len(rows))
	for _, row := range rows {
		c := core.Candidate{
			ID:            row.ID,
			SourceType:    core.SourceProcedural,
			Content:       row.Skill,
			RawSimilarity: floatPtr(p.base),
			RawImportance: floatPtr(clamp01(row.SuccessRate)),
			Metadata:      row.Metadata,
		}
		if !row.LastPracticed.IsZero() {
			c.RawRecency = timePtr(row.LastPracticed)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
