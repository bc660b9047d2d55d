package ranking

import (
	"github.com/hupe1980/recallmesh/core"
)

// Weight names accepted in RetrievalQuery.WeightOverrides.
const (
	WeightSemantic   = "semantic"
	WeightTemporal   = "temporal"
	WeightImportance = "importance"
	WeightAffect     = "affect"
)

// WeightProfile is the four-way split of scoring emphasis among the semantic,
// temporal, importance and affect signals. A resolved profile sums to 1 and
// is never mutated afterward.
type WeightProfile struct {
	Semantic   float64
	Temporal   float64
	Importance float64
	Affect     float64
}

// Sum returns the total of the four weights.
func (w WeightProfile) Sum() float64 {
	return w.Semantic + w.Temporal + w.Importance + w.Affect
}

// normalized divides each weight by the sum. A zero sum returns the profile
// unchanged so an all-zero override set falls back to the base values.
func (w WeightProfile) normalized() WeightProfile {
	sum := w.Sum()
	if sum == 0 {
		return w
	}
	return WeightProfile{
		Semantic:   w.Semantic / sum,
		Temporal:   w.Temporal / sum,
		Importance: w.Importance / sum,
		Affect:     w.Affect / sum,
	}
}

// baseProfiles are the built-in per-strategy starting points. Values are
// normalized again at resolve time, so they only need to express relative
// emphasis.
var baseProfiles = map[core.Strategy]WeightProfile{
	core.StrategySemantic: {Semantic: 0.7, Temporal: 0.1, Importance: 0.1, Affect: 0.1},
	core.StrategyTemporal: {Semantic: 0.1, Temporal: 0.6, Importance: 0.2, Affect: 0.1},
	core.StrategyAffect:   {Semantic: 0.2, Temporal: 0.1, Importance: 0.1, Affect: 0.6},
	core.StrategyHybrid:   {Semantic: 0.4, Temporal: 0.3, Importance: 0.2, Affect: 0.1},
}

// Resolve produces the weight profile for a request: the strategy's base
// profile with any named overrides applied, renormalized to sum to 1. An
// unknown strategy resolves like hybrid. Callers supplying overrides that sum
// to zero get the base profile back unnormalized (divide-by-zero guard).
func Resolve(strategy core.Strategy, overrides map[string]float64) WeightProfile {
	base, ok := baseProfiles[strategy]
	if !ok {
		base = baseProfiles[core.StrategyHybrid]
	}
	if len(overrides) == 0 {
		return base.normalized()
	}
	merged := base
	if v, ok := overrides[WeightSemantic]; ok {
		merged.Semantic = v
	}
	if v, ok := overrides[WeightTemporal]; ok {
		merged.Temporal = v
	}
	if v, ok := overrides[WeightImportance]; ok {
		merged.Importance = v
	}
	if v, ok := overrides[WeightAffect]; ok {
		merged.Affect = v
	}
	if merged.Sum() == 0 {
		return base
	}
	return merged.normalized()
}
