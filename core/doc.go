// Package core provides the foundational domain types and interfaces used by
// RecallMesh. It defines the core abstractions for:
//
//   - Retrieval queries (immutable per-request descriptors with filters,
//     strategy selection and weight overrides)
//   - Candidates and scored results (the unscored / scored retrieval units)
//   - Pluggable backends for vector search, typed record families and
//     short-lived result caching
//
// The package intentionally keeps implementation concerns (persistence,
// ranking math, engine orchestration) out of scope, exposing small interfaces
// to enable custom backends and extensions. All exported identifiers include
// concise documentation to aid discoverability and external consumption.
package core
