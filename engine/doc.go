// Package engine contains the retrieval orchestrator. It validates the
// request, decides which gathering strategies apply, fans them out
// concurrently under a per-request deadline, then runs the strictly
// sequential merge, dedupe, score, sort, filter and paginate pipeline.
// Partial backend failure degrades the result set; only a request where
// every strategy failed surfaces an error. The engine is constructed once at
// process start with concrete adapters and holds no per-request state.
package engine
