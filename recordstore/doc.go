// Package recordstore contains RecordStore implementations serving the typed
// record families (events, affect states, skills). The read contract lives in
// the core package; depend on core.RecordStore in your code and pick an
// implementation (in-memory for tests and demos, SQLite for durable local
// deployments) at wiring time. List-valued metadata is stored as JSON and
// decoded here at the adapter boundary, never downstream.
package recordstore
