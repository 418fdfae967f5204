// Package obslog holds the process-wide slog.Logger shared by b3dtile
// and sdfield. Both kernels are silent by default; a host embedding
// this module calls SetLogger once before constructing any tile or
// converter to opt into diagnostics.
//
// Grounded on gogpu-gg's logger.go: an atomic pointer to the active
// logger, a zero-cost no-op handler as the default, and a package-level
// SetLogger/Logger pair instead of threading a logger through every
// constructor.
package obslog

import (
	"context"
	"log/slog"
	"sync/atomic"
)

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

// SetLogger configures the shared logger. Pass nil to restore the
// silent default. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the currently configured logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
