// Package ranking contains the pure scoring pipeline applied after candidate
// gathering: weight-profile resolution, per-candidate score blending and
// cross-store deduplication. Nothing in this package performs I/O; every
// function is deterministic over its inputs so ranking behavior can be unit
// tested against literal values.
package ranking
