package gsk

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gsk/internal/cpu"
	"github.com/gogpu/gsk/internal/render"
)

// nopHandler is a slog.Handler that discards all records. Enabled
// returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for gsk and its internal packages.
// By default gsk produces no log output. Pass nil to restore the silent
// default.
//
// Backends created by later calls to NewRenderer receive the logger too
// when they implement SetLogger(*slog.Logger).
//
// Log levels used by gsk:
//   - [slog.LevelDebug]: sub-pass decisions, CPU fallbacks, color conversions
//   - [slog.LevelInfo]: GPU device lifecycle
//   - [slog.LevelWarn]: data that could not be rendered
//   - [slog.LevelError]: node kinds without a handler
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	render.SetLogger(l)
	cpu.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(b any, l *slog.Logger) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
