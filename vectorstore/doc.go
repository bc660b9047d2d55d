// Package vectorstore contains VectorStore implementations. The store
// contract and VectorMatch type reside in the core package; depend on
// core.VectorStore in your code and select an implementation (like the
// in-memory store below) at wiring time.
package vectorstore
