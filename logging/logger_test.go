package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures every call made through the Logger interface.
type recorder struct {
	entries []entry
}

type entry struct {
	level string
	msg   string
	args  []any
}

func (r *recorder) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *recorder) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *recorder) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *recorder) Error(msg string, args ...any) { r.record("error", msg, args) }

func (r *recorder) record(level, msg string, args []any) {
	r.entries = append(r.entries, entry{level: level, msg: msg, args: args})
}

func (r *recorder) last(t *testing.T) entry {
	t.Helper()
	require.NotEmpty(t, r.entries)
	return r.entries[len(r.entries)-1]
}

// argMap turns the flat key/value arg list into a map for assertions.
func argMap(t *testing.T, args []any) map[string]any {
	t.Helper()
	require.Zero(t, len(args)%2, "args must be key/value pairs")
	m := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		require.True(t, ok, "arg key must be a string")
		m[key] = args[i+1]
	}
	return m
}

func TestRecallLogger_AttachesRequestContext(t *testing.T) {
	rec := &recorder{}
	l := NewRecallLogger(rec).WithComponent("engine").WithRequest("u1", "r1")

	l.Info("hello", "k", "v")

	e := rec.last(t)
	assert.Equal(t, "info", e.level)
	assert.Equal(t, "hello", e.msg)
	m := argMap(t, e.args)
	assert.Equal(t, "engine", m["component"])
	assert.Equal(t, "u1", m["user_id"])
	assert.Equal(t, "r1", m["request_id"])
	assert.Equal(t, "v", m["k"])
}

func TestRecallLogger_WithMethodsDoNotMutateParent(t *testing.T) {
	rec := &recorder{}
	parent := NewRecallLogger(rec).WithComponent("engine")
	_ = parent.WithRequest("u1", "r1").WithContext("extra", 1)

	parent.Info("plain")

	m := argMap(t, rec.last(t).args)
	assert.NotContains(t, m, "user_id")
	assert.NotContains(t, m, "extra")
	assert.Equal(t, "engine", m["component"])
}

func TestRecallLogger_LogStrategyRun(t *testing.T) {
	rec := &recorder{}
	l := NewRecallLogger(rec)

	l.LogStrategyRun("semantic", 3, 5*time.Millisecond, nil)
	e := rec.last(t)
	assert.Equal(t, "debug", e.level)
	assert.Equal(t, "Strategy completed", e.msg)
	m := argMap(t, e.args)
	assert.Equal(t, "semantic", m["strategy"])
	assert.Equal(t, 3, m["candidates"])

	l.LogStrategyRun("affect", 0, time.Millisecond, errors.New("backend down"))
	e = rec.last(t)
	assert.Equal(t, "warn", e.level)
	assert.Equal(t, "Strategy failed", e.msg)
	assert.Contains(t, argMap(t, e.args), "error")
}

func TestRecallLogger_LogBackendCall(t *testing.T) {
	rec := &recorder{}
	l := NewRecallLogger(rec)

	l.LogBackendCall("result_cache", "get", time.Millisecond, nil)
	e := rec.last(t)
	assert.Equal(t, "debug", e.level)
	assert.Equal(t, "Backend call completed", e.msg)
	m := argMap(t, e.args)
	assert.Equal(t, "result_cache", m["backend"])
	assert.Equal(t, "get", m["operation"])

	l.LogBackendCall("result_cache", "set", time.Millisecond, errors.New("full"))
	assert.Equal(t, "warn", rec.last(t).level)
}

func TestRecallLogger_LogRetrieve(t *testing.T) {
	rec := &recorder{}
	l := NewRecallLogger(rec)

	l.LogRetrieve(2, 5, 12, 8*time.Millisecond, true, nil)
	e := rec.last(t)
	assert.Equal(t, "info", e.level)
	assert.Equal(t, "Retrieval completed", e.msg)
	m := argMap(t, e.args)
	assert.Equal(t, 2, m["strategies"])
	assert.Equal(t, 5, m["returned"])
	assert.Equal(t, 12, m["total"])
	assert.Equal(t, true, m["cache_hit"])

	l.LogRetrieve(2, 0, 0, time.Millisecond, false, errors.New("all backends down"))
	e = rec.last(t)
	assert.Equal(t, "error", e.level)
	assert.Equal(t, "Retrieval failed", e.msg)
}

func TestNewRecallLogger_NilBaseDiscards(t *testing.T) {
	l := NewRecallLogger(nil)
	assert.NotPanics(t, func() { l.Info("dropped") })
}

func TestNewLogger_WritesThroughConfiguredBackend(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{
		Level:     LogLevelDebug,
		Format:    "text",
		Output:    &buf,
		Component: "engine",
	})

	l.Info("Retrieval completed", "total", 3)

	out := buf.String()
	assert.Contains(t, out, "Retrieval completed")
	assert.Contains(t, out, "component=engine")
	assert.Contains(t, out, "total=3")
}
