// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package taa

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/taa/internal/gpu"
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
// SetLogger can be called while a render thread is logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for taa and its internal packages.
// By default, taa produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by taa:
//   - [slog.LevelDebug]: per-frame diagnostics (buffer sizes, far-plane substitution)
//   - [slog.LevelInfo]: lifecycle events (history allocated, camera state released)
//   - [slog.LevelWarn]: non-fatal faults (missing resolve shader, allocation failure)
//
// Example:
//
//	taa.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the current logger used by taa.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
