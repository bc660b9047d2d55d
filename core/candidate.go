package core

import (
	"sort"
	"time"
)

// SourceType identifies the record family a candidate was retrieved from.
type SourceType string

const (
	// SourceSemantic marks candidates from the vector store.
	SourceSemantic SourceType = "semantic"
	// SourceEpisodic marks candidates from event records.
	SourceEpisodic SourceType = "episodic"
	// SourceAffective marks candidates from affect records.
	SourceAffective SourceType = "affective"
	// SourceProcedural marks candidates from skill/practice records.
	SourceProcedural SourceType = "procedural"
)

// Metadata is the typed side-table of known optional record fields plus a
// generic bag for anything else. List-valued fields are decoded once at the
// store-adapter boundary, never downstream.
type Metadata struct {
	Tags         []string
	Participants []string
	Location     string
	Extra        map[string]any
}

// Candidate is an unscored retrieval result produced by one strategy. The
// Raw* fields are the signals the producing backend could supply; nil means
// "this backend has no opinion" and the scorer substitutes a neutral default.
type Candidate struct {
	ID         string
	SourceType SourceType
	Content    string

	// RawSimilarity is topical relevance in [0,1] when the producing
	// strategy computed one (vector distance, temporal proximity, or the
	// fixed procedural base).
	RawSimilarity *float64

	// RawRecency is the record's reference timestamp for decay scoring.
	RawRecency *time.Time

	// RawImportance is the stored importance in [0,1].
	RawImportance *float64

	// RawAffectMatch is affect similarity in [0,1].
	RawAffectMatch *float64

	Metadata Metadata

	// SecondaryID back-references the record-store row mirroring the same
	// logical fact, when both stores hold it. The deduplicator joins on it.
	SecondaryID string
}

// HasSignal reports whether the candidate carries at least one usable scoring
// signal. Candidates without any are dropped before scoring.
func (c Candidate) HasSignal() bool {
	return c.RawSimilarity != nil || c.RawRecency != nil || c.RawAffectMatch != nil
}

// ScoredResult is a candidate with its final blended score and the
// intermediate recency/importance terms actually used, retained for
// explainability and testing.
type ScoredResult struct {
	Candidate

	// Score is the blended ranking score, always within [0,1].
	Score float64

	// RecencyScore is the decay term that entered the blend.
	RecencyScore float64

	// ImportanceScore is the importance term that entered the blend.
	ImportanceScore float64
}

// Pagination describes the window applied to the ranked result list. Total is
// the number of results after filtering, before the window.
type Pagination struct {
	Limit  int
	Offset int
	Total  int
}

// SortResults orders results by score descending, breaking ties by id
// ascending. The order is total, keeping pagination deterministic.
func SortResults(results []ScoredResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
}
