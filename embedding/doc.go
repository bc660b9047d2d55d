// Package embedding contains Embedder implementations: a deterministic
// local-first hash embedder, an adapter for the OpenAI embeddings API, and an
// LRU caching decorator that wraps any Embedder. The contract lives in the
// core package; depend on core.Embedder and pick an implementation at wiring
// time.
package embedding
