package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/recallmesh/core"
)

// CandidateBuilder helps construct candidates with fluent chaining for tests.
// Example:
//
//	c := NewCandidateBuilder("mem_1").Similarity(0.9).Recency(ts).Build()
type CandidateBuilder struct {
	c core.Candidate
}

// NewCandidateBuilder creates a builder for a candidate with the given id.
// An empty id gets a generated one. The source type defaults to semantic.
func NewCandidateBuilder(id string) *CandidateBuilder {
	if id == "" {
		id = uuid.NewString()
	}
	return &CandidateBuilder{c: core.Candidate{ID: id, SourceType: core.SourceSemantic}}
}

// Source sets the source type (chainable).
func (b *CandidateBuilder) Source(t core.SourceType) *CandidateBuilder {
	b.c.SourceType = t
	return b
}

// Content sets the content (chainable).
func (b *CandidateBuilder) Content(s string) *CandidateBuilder {
	b.c.Content = s
	return b
}

// Similarity sets the raw similarity signal (chainable).
func (b *CandidateBuilder) Similarity(v float64) *CandidateBuilder {
	b.c.RawSimilarity = &v
	return b
}

// Recency sets the raw recency timestamp (chainable).
func (b *CandidateBuilder) Recency(t time.Time) *CandidateBuilder {
	b.c.RawRecency = &t
	return b
}

// Importance sets the raw importance signal (chainable).
func (b *CandidateBuilder) Importance(v float64) *CandidateBuilder {
	b.c.RawImportance = &v
	return b
}

// AffectMatch sets the raw affect match signal (chainable).
func (b *CandidateBuilder) AffectMatch(v float64) *CandidateBuilder {
	b.c.RawAffectMatch = &v
	return b
}

// Secondary sets the cross-store mirror id (chainable).
func (b *CandidateBuilder) Secondary(id string) *CandidateBuilder {
	b.c.SecondaryID = id
	return b
}

// Tags sets the metadata tags (chainable).
func (b *CandidateBuilder) Tags(tags ...string) *CandidateBuilder {
	b.c.Metadata.Tags = tags
	return b
}

// Build returns the constructed candidate.
func (b *CandidateBuilder) Build() core.Candidate { return b.c }
