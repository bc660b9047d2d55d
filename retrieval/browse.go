package retrieval

import (
	"context"
	"errors"

	"github.com/hupe1980/recallmesh/core"
)

// Browse pulls the most recent entries from every store family for the user
// without any similarity computation, so recency and importance alone drive
// the ranking. It replaces the semantic strategy when the query has no text.
type Browse struct {
	deps Deps
	topN int
}

// NewBrowse constructs the browse-all strategy.
func NewBrowse(deps Deps, topN int) *Browse {
	return &Browse{deps: deps, topN: topN}
}

// Name implements Strategy.
func (b *Browse) Name() string { return NameBrowse }

// Gather implements Strategy. Individual family reads degrade independently;
// Browse fails only when every family read failed.
func (b *Browse) Gather(ctx context.Context, q core.RetrievalQuery) ([]core.Candidate, error) {
	var (
		candidates []core.Candidate
		errs       []error
	)

	matches, err := b.deps.Vectors.Scan(ctx, q.UserID, nil, b.topN, 0)
	if err != nil {
		b.deps.logger().Warn("browse family read failed", "family", "vectors", "error", err)
		errs = append(errs, err)
	}
	for _, m := range matches {
		c := core.Candidate{
			ID:            m.ID,
			SourceType:    core.SourceSemantic,
			Content:       m.Content,
			RawImportance: m.Importance,
			Metadata:      m.Metadata,
			SecondaryID:   m.SecondaryID,
		}
		if !m.CreatedAt.IsZero() {
			c.RawRecency = timePtr(m.CreatedAt)
		}
		candidates = append(candidates, c)
	}

	events, err := b.deps.Records.QueryEvents(ctx, q.UserID, core.EventFilter{Limit: b.topN})
	if err != nil {
		b.deps.logger().Warn("browse family read failed", "family", "events", "error", err)
		errs = append(errs, err)
	}
	for _, row := range events {
		candidates = append(candidates, core.Candidate{
			ID:            row.ID,
			SourceType:    core.SourceEpisodic,
			Content:       row.Content,
			RawRecency:    timePtr(row.OccurredAt),
			RawImportance: floatPtr(row.Importance),
			Metadata:      row.Metadata,
		})
	}

	affects, err := b.deps.Records.QueryAffect(ctx, q.UserID, core.AffectFilter{Limit: b.topN})
	if err != nil {
		b.deps.logger().Warn("browse family read failed", "family", "affect", "error", err)
		errs = append(errs, err)
	}
	for _, row := range affects {
		candidates = append(candidates, core.Candidate{
			ID:            row.ID,
			SourceType:    core.SourceAffective,
			Content:       row.Content,
			RawRecency:    timePtr(row.RecordedAt),
			RawImportance: floatPtr(row.Importance),
			Metadata:      row.Metadata,
		})
	}

	skills, err := b.deps.Records.QuerySkills(ctx, q.UserID, core.SkillFilter{Limit: b.topN})
	if err != nil {
		b.deps.logger().Warn("browse family read failed", "family", "skills", "error", err)
		errs = append(errs, err)
	}
	for _, row := range skills {
		c := core.Candidate{
			ID:            row.ID,
			SourceType:    core.SourceProcedural,
			Content:       row.Skill,
			RawImportance: floatPtr(clamp01(row.SuccessRate)),
			Metadata:      row.Metadata,
		}
		if !row.LastPracticed.IsZero() {
			c.RawRecency = timePtr(row.LastPracticed)
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 && len(errs) == 4 {
		return nil, errors.Join(errs...)
	}
	return candidates, nil
}
