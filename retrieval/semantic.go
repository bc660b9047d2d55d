package retrieval

import (
	"context"
	"fmt"

	"github.com/hupe1980/recallmesh/core"
)

// Semantic retrieves candidates by embedding the query text and running a
// nearest-neighbor search over the user's vector entries. An embedding
// failure fails this strategy only, never the whole request.
type Semantic struct {
	deps Deps
	topN int
}

// NewSemantic constructs the semantic strategy. topN caps the number of
// nearest neighbors requested per call.
func NewSemantic(deps Deps, topN int) *Semantic {
	return &Semantic{deps: deps, topN: topN}
}

// Name implements Strategy.
func (s *Semantic) Name() string { return NameSemantic }

// Gather implements Strategy. Raw similarity is 1 - cosine distance, clamped
// to [0,1].
func (s *Semantic) Gather(ctx context.Context, q core.RetrievalQuery) ([]core.Candidate, error) {
	vector, err := s.deps.Embedder.Embed(ctx, q.QueryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.deps.Vectors.Query(ctx, q.UserID, vector, s.topN, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	candidates := make([]core.Candidate, 0, len(matches))
	for _, m := range matches {
		c := core.Candidate{
			ID:            m.ID,
			SourceType:    core.SourceSemantic,
			Content:       m.Content,
			RawSimilarity: floatPtr(clamp01(1 - m.Distance)),
			RawImportance: m.Importance,
			Metadata:      m.Metadata,
			SecondaryID:   m.SecondaryID,
		}
		if !m.CreatedAt.IsZero() {
			c.RawRecency = timePtr(m.CreatedAt)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
