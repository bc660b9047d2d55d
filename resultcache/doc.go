// Package resultcache contains ResultCache implementations for the
// short-lived retrieval path. Entries are whole serialized result sets keyed
// by (user, query hash, namespace version); invalidation is by namespace
// bump, with TTL as the backstop, so readers never delete entries and no
// in-place mutation ever happens. The contract lives in the core package.
package resultcache
