package gpu

import (
	"log/slog"
	"sync/atomic"
)

// discard is used until taa.SetLogger installs a logger.
var discard = slog.New(slog.DiscardHandler)

var current atomic.Pointer[slog.Logger]

// logger returns the logger for texture lifecycle (Debug) and shader
// compile failures (Warn).
func logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return discard
}

// SetLogger installs l for this package; nil silences it again. taa
// forwards its own SetLogger here.
func SetLogger(l *slog.Logger) {
	current.Store(l)
}
