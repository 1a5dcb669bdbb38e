package vg

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for vg and all its sub-packages.
// By default, vg produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by vg:
//   - [slog.LevelDebug]: internal diagnostics (canonical table sizes, pass timing)
//   - [slog.LevelWarn]: malformed document data (dangling references, cycles,
//     unparseable attributes) when no explicit warning sink is installed
//
// Example:
//
//	// Enable info-level logging to stderr:
//	vg.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	vg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by vg.
// Sub-packages (svg/, avd/, si/, scene/) call this to share the same
// logger configuration without introducing import cycles.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// Warn is a warning sink for non-fatal document problems: dangling
// references, reference cycles, unparseable attribute values, degenerate
// geometry. Parsing and resolution report through a Warn and continue;
// a warning never aborts a document.
type Warn func(msg string)

// Warnf formats and reports a warning, falling back to the package logger
// when w is nil. Calling Warnf on a nil Warn is always safe.
func (w Warn) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if w != nil {
		w(msg)
		return
	}
	Logger().Warn(msg)
}
