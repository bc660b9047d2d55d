package core

import (
	"context"
	"time"
)

// Embedder turns free text into a fixed-length numeric vector. Implementations
// may call external services; the retrieval core only depends on this
// contract.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorMatch is one entry returned by a VectorStore. Distance is only
// meaningful for Query results (cosine distance, lower is closer); Scan
// results leave it zero.
type VectorMatch struct {
	ID        string
	Content   string
	Metadata  Metadata
	CreatedAt time.Time
	Distance  float64

	// Importance is the stored importance in [0,1], when the entry has one.
	Importance *float64

	// SecondaryID, when present, names the record-store row mirroring the
	// same fact.
	SecondaryID string
}

// VectorStore is the approximate-nearest-neighbor backend holding embedded
// memory entries partitioned by user.
type VectorStore interface {
	// Query returns up to limit entries closest to vector for the user,
	// optionally restricted by metadata equality filters.
	Query(ctx context.Context, userID string, vector []float64, limit int, where map[string]string) ([]VectorMatch, error)

	// Scan pages through the user's entries most-recent-first without a
	// similarity computation.
	Scan(ctx context.Context, userID string, where map[string]string, limit, offset int) ([]VectorMatch, error)
}

// EventRow is an episodic record from the relational store. Valence/Arousal
// are set when the event carries affect fields.
type EventRow struct {
	ID         string
	UserID     string
	Content    string
	OccurredAt time.Time
	Importance float64
	Valence    *float64
	Arousal    *float64
	Metadata   Metadata
}

// AffectRow is an emotional-state record from the relational store.
type AffectRow struct {
	ID         string
	UserID     string
	Content    string
	RecordedAt time.Time
	Valence    float64
	Arousal    float64
	Importance float64
	Metadata   Metadata
}

// SkillRow is a procedural/practice record from the relational store.
type SkillRow struct {
	ID            string
	UserID        string
	Skill         string
	LastPracticed time.Time
	SuccessRate   float64
	PracticeCount int
	Metadata      Metadata
}

// EventFilter bounds a QueryEvents call. Nil time bounds are open.
type EventFilter struct {
	Start *time.Time
	End   *time.Time
	Limit int
}

// AffectFilter bounds a QueryAffect call.
type AffectFilter struct {
	Limit int
}

// SkillFilter bounds a QuerySkills call.
type SkillFilter struct {
	Limit int
}

// RecordStore serves the typed record families (events, affect states,
// skills) for a user. Implementations back onto relational storage; the core
// depends only on these narrow read methods.
type RecordStore interface {
	QueryEvents(ctx context.Context, userID string, f EventFilter) ([]EventRow, error)
	QueryAffect(ctx context.Context, userID string, f AffectFilter) ([]AffectRow, error)
	QuerySkills(ctx context.Context, userID string, f SkillFilter) ([]SkillRow, error)
}

// ResultCache is a namespaced key/value store with TTL used for the
// short-lived no-filter retrieval path. Entries are written and read whole,
// never mutated in place. Invalidation is by namespace version: the write
// path bumps the user's version when new short-lived facts land, making old
// keys unaddressable; TTL is the backstop.
type ResultCache interface {
	// Get returns the cached value for key, reporting whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for at most ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Namespace returns the user's current namespace version.
	Namespace(ctx context.Context, userID string) (uint64, error)

	// BumpNamespace advances and returns the user's namespace version.
	BumpNamespace(ctx context.Context, userID string) (uint64, error)
}
