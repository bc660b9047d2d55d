package core

import "fmt"

var (
	// ErrInvalidQuery is returned for malformed requests (missing user id,
	// non-positive limit, inverted time range). Client error, never retried.
	ErrInvalidQuery = fmt.Errorf("invalid retrieval query")

	// ErrBackendUnavailable is returned when every selected strategy failed
	// and no backend could be reached. Retryable by the caller.
	ErrBackendUnavailable = fmt.Errorf("all retrieval backends unavailable")

	// ErrCanceled is returned when the caller's context was canceled before
	// the request completed. Not retried.
	ErrCanceled = fmt.Errorf("retrieval canceled")
)

// StrategyError records the failure of a single retrieval strategy. It is
// logged and counted, not surfaced to the caller, unless every strategy for
// the request failed.
type StrategyError struct {
	Strategy string
	Err      error
}

// Error implements the error interface.
func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s failed: %v", e.Strategy, e.Err)
}

// Unwrap exposes the underlying backend error for errors.Is/As.
func (e *StrategyError) Unwrap() error { return e.Err }
