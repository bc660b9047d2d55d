package testutil

import (
	"time"

	"github.com/hupe1980/recallmesh/core"
)

// QueryBuilder helps construct retrieval queries with fluent chaining for
// tests. The zero builder produces a valid hybrid query for user "u1" with
// limit 10.
type QueryBuilder struct {
	q core.RetrievalQuery
}

// NewQueryBuilder creates a builder for the given user.
func NewQueryBuilder(userID string) *QueryBuilder {
	if userID == "" {
		userID = "u1"
	}
	return &QueryBuilder{q: core.RetrievalQuery{UserID: userID, Limit: 10}}
}

// Text sets the query text (chainable).
func (b *QueryBuilder) Text(s string) *QueryBuilder {
	b.q.QueryText = s
	return b
}

// Types sets the memory type filter (chainable).
func (b *QueryBuilder) Types(types ...core.SourceType) *QueryBuilder {
	b.q.MemoryTypes = types
	return b
}

// Range sets the time range (chainable).
func (b *QueryBuilder) Range(start, end time.Time) *QueryBuilder {
	b.q.TimeRange = &core.TimeRange{Start: start, End: end}
	return b
}

// Affect sets the affect context (chainable).
func (b *QueryBuilder) Affect(valence, arousal float64) *QueryBuilder {
	b.q.AffectContext = &core.AffectContext{Valence: valence, Arousal: arousal}
	return b
}

// MinImportance sets the importance threshold (chainable).
func (b *QueryBuilder) MinImportance(v float64) *QueryBuilder {
	b.q.ImportanceThreshold = &v
	return b
}

// Limit sets the result limit (chainable).
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.q.Limit = n
	return b
}

// Offset sets the pagination offset (chainable).
func (b *QueryBuilder) Offset(n int) *QueryBuilder {
	b.q.Offset = n
	return b
}

// Strategy sets the weight strategy (chainable).
func (b *QueryBuilder) Strategy(s core.Strategy) *QueryBuilder {
	b.q.Strategy = s
	return b
}

// Overrides sets the weight overrides (chainable).
func (b *QueryBuilder) Overrides(o map[string]float64) *QueryBuilder {
	b.q.WeightOverrides = o
	return b
}

// Build returns the constructed query.
func (b *QueryBuilder) Build() core.RetrievalQuery { return b.q }
