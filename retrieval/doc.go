// Package retrieval contains the candidate-gathering strategies. Each
// strategy reads one slice of the data (vector similarity, time ranges,
// affect states, skills, or a plain recency browse) through the store
// contracts in core and returns unscored candidates; blending raw signals
// into a ranking score is the ranking package's job. Strategies are
// side-effect-free reads and safe to run concurrently for one request.
package retrieval
