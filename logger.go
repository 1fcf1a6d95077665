package paint

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// loggerSetter is implemented by editors, orchestrators and backends that
// accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

var (
	sinksMu sync.Mutex
	sinks   []loggerSetter
)

// SetLogger configures the logger for paint and all its sub-packages.
// By default, paint produces no log output. Pass nil to restore the silent
// default. The logger is propagated to every live Editor and its backend.
//
// Log levels used by paint:
//   - [slog.LevelDebug]: frame timings, pipeline creation, history eviction
//   - [slog.LevelInfo]: backend selection
//   - [slog.LevelWarn]: resource release errors, aborted strokes
//
// Example:
//
//	paint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	sinksMu.Lock()
	defer sinksMu.Unlock()
	for _, s := range sinks {
		s.SetLogger(l)
	}
}

// Logger returns the current logger. Sub-packages (gpu/, cmd/) call this to
// share the same logger configuration.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// registerSink hands the current logger to s and keeps it updated.
func registerSink(s loggerSetter) {
	sinksMu.Lock()
	defer sinksMu.Unlock()
	sinks = append(sinks, s)
	s.SetLogger(Logger())
}

func unregisterSink(s loggerSetter) {
	sinksMu.Lock()
	defer sinksMu.Unlock()
	for i, v := range sinks {
		if v == s {
			sinks = append(sinks[:i], sinks[i+1:]...)
			return
		}
	}
}
