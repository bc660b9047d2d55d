package ranking

import (
	"time"

	"github.com/hupe1980/recallmesh/core"
)

const (
	// DefaultDecayK is the empirical recency decay constant. One day of age
	// at the default k reduces the recency term to 1/1.1.
	DefaultDecayK = 0.1

	// neutralTerm substitutes for any signal the producing backend did not
	// supply.
	neutralTerm = 0.5

	secondsPerDay = 86400
)

// Scorer blends a candidate's raw signals into one bounded score under a
// weight profile. The zero value is not usable; construct with NewScorer.
type Scorer struct {
	decayK float64
	now    func() time.Time
}

// NewScorer returns a scorer with the given decay constant. A non-positive
// decayK falls back to DefaultDecayK.
func NewScorer(decayK float64) *Scorer {
	if decayK <= 0 {
		decayK = DefaultDecayK
	}
	return &Scorer{decayK: decayK, now: time.Now}
}

// RecencyScore maps a record age to (0,1]: 1/(1 + k*ageSeconds/86400).
// It is 1 at age zero and strictly decreasing in age.
func (s *Scorer) RecencyScore(age time.Duration) float64 {
	ageSeconds := age.Seconds()
	if ageSeconds < 0 {
		ageSeconds = 0
	}
	return 1 / (1 + s.decayK*ageSeconds/secondsPerDay)
}

// Score blends the candidate's signals under the profile, returning the
// scored result with the recency and importance terms it actually used.
// The final score is clamped to [0,1].
func (s *Scorer) Score(c core.Candidate, w WeightProfile) core.ScoredResult {
	recency := neutralTerm
	if c.RawRecency != nil {
		recency = s.RecencyScore(s.now().Sub(*c.RawRecency))
	}

	semanticTerm := neutralTerm
	if c.RawSimilarity != nil {
		semanticTerm = *c.RawSimilarity
	}

	// Temporal-strategy candidates encode range proximity in RawSimilarity;
	// everything else decays by age.
	temporalTerm := recency
	if c.SourceType == core.SourceEpisodic && c.RawSimilarity != nil {
		temporalTerm = *c.RawSimilarity
	}

	affectTerm := neutralTerm
	if c.RawAffectMatch != nil {
		affectTerm = *c.RawAffectMatch
	}

	importanceTerm := neutralTerm
	if c.RawImportance != nil {
		importanceTerm = *c.RawImportance
	}

	score := w.Semantic*semanticTerm + w.Temporal*temporalTerm + w.Importance*importanceTerm + w.Affect*affectTerm

	return core.ScoredResult{
		Candidate:       c,
		Score:           clamp01(score),
		RecencyScore:    recency,
		ImportanceScore: importanceTerm,
	}
}

// ScoreAll scores every candidate that carries at least one usable signal,
// dropping the rest.
func (s *Scorer) ScoreAll(candidates []core.Candidate, w WeightProfile) []core.ScoredResult {
	results := make([]core.ScoredResult, 0, len(candidates))
	for _, c := range candidates {
		if !c.HasSignal() {
			continue
		}
		results = append(results, s.Score(c, w))
	}
	return results
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
