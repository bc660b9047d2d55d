// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer RecallLogger with contextual
// helpers (request, user, component) and domain specific logging helpers for
// strategy runs, backend calls and retrieval summaries.
package logging
