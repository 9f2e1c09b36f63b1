package batch

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger for batch runs. By default nothing is logged.
// Pass nil to restore the silent default. Safe for concurrent use.
//
// Levels used:
//   - [slog.LevelDebug]: per-model timings and atlas sizes
//   - [slog.LevelInfo]: run start, progress and summary
//   - [slog.LevelWarn]: failed models, dropped atomics, missing dictionaries
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current batch logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
