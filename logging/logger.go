package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled
// from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for RecallMesh. This allows
// users to provide their own logger implementation or use the built-in
// adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// RecallLogger decorates any Logger with contextual cloning helpers and
// domain convenience methods for the retrieval pipeline. The engine builds
// one per request via WithRequest; every entry carries the attached
// component, user and request attributes.
type RecallLogger struct {
	base      Logger
	context   map[string]any
	component string
	userID    string
	requestID string
}

// NewRecallLogger wraps base with the domain helpers. A nil base discards
// everything.
func NewRecallLogger(base Logger) *RecallLogger {
	if base == nil {
		base = NoOpLogger{}
	}
	return &RecallLogger{base: base, context: map[string]any{}}
}

// LoggerConfig configures construction of a RecallLogger with its own slog
// backend.
type LoggerConfig struct {
	Level       LogLevel
	Format      string // json or text
	Output      io.Writer
	AddSource   bool
	Component   string
	CustomAttrs map[string]any
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout, AddSource: true, CustomAttrs: map[string]any{}}
}

// NewLogger builds a RecallLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *RecallLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	l := NewRecallLogger(NewSlogAdapter(slog.New(handler)))
	l.component = cfg.Component
	for k, v := range cfg.CustomAttrs {
		l.context[k] = v
	}
	return l
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *RecallLogger) clone() *RecallLogger {
	nl := *l
	nl.context = map[string]any{}
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute attached to every log entry.
func (l *RecallLogger) WithContext(key string, value any) *RecallLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithComponent sets the logical component (engine, strategy, store, etc.).
func (l *RecallLogger) WithComponent(c string) *RecallLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithRequest attaches user and request identifiers.
func (l *RecallLogger) WithRequest(userID, requestID string) *RecallLogger {
	nl := l.clone()
	nl.userID = userID
	nl.requestID = requestID
	return nl
}

// withStandard prepends the attached attributes to the call-site args.
func (l *RecallLogger) withStandard(args []any) []any {
	out := make([]any, 0, len(args)+6+2*len(l.context))
	if l.component != "" {
		out = append(out, "component", l.component)
	}
	if l.userID != "" {
		out = append(out, "user_id", l.userID)
	}
	if l.requestID != "" {
		out = append(out, "request_id", l.requestID)
	}
	for k, v := range l.context {
		out = append(out, k, v)
	}
	return append(out, args...)
}

// Debug logs at debug level.
func (l *RecallLogger) Debug(msg string, args ...any) {
	l.base.Debug(msg, l.withStandard(args)...)
}

// Info logs at info level.
func (l *RecallLogger) Info(msg string, args ...any) {
	l.base.Info(msg, l.withStandard(args)...)
}

// Warn logs at warn level.
func (l *RecallLogger) Warn(msg string, args ...any) {
	l.base.Warn(msg, l.withStandard(args)...)
}

// Error logs at error level.
func (l *RecallLogger) Error(msg string, args ...any) {
	l.base.Error(msg, l.withStandard(args)...)
}

// LogStrategyRun records execution details for one retrieval strategy.
func (l *RecallLogger) LogStrategyRun(strategy string, candidates int, dur time.Duration, err error) {
	args := []any{"strategy", strategy, "candidates", candidates, "duration", dur}
	if err != nil {
		l.Warn("Strategy failed", append(args, "error", err)...)
		return
	}
	l.Debug("Strategy completed", args...)
}

// LogBackendCall records latency and outcome of one backend read or write.
func (l *RecallLogger) LogBackendCall(backend, op string, dur time.Duration, err error) {
	args := []any{"backend", backend, "operation", op, "duration", dur}
	if err != nil {
		l.Warn("Backend call failed", append(args, "error", err)...)
		return
	}
	l.Debug("Backend call completed", args...)
}

// LogRetrieve records aggregate metrics for a retrieval request.
func (l *RecallLogger) LogRetrieve(strategies, returned, total int, dur time.Duration, cacheHit bool, err error) {
	args := []any{
		"strategies", strategies,
		"returned", returned,
		"total", total,
		"duration", dur,
		"cache_hit", cacheHit,
	}
	if err != nil {
		l.Error("Retrieval failed", append(args, "error", err)...)
		return
	}
	l.Info("Retrieval completed", args...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is
// disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

var _ Logger = (*RecallLogger)(nil)
var _ Logger = NoOpLogger{}
