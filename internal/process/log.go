package process

import (
	"log/slog"
	"sync/atomic"
)

// override is the logger installed with SetLogger; nil selects the default.
var override atomic.Pointer[slog.Logger]

// Logger returns the logger launches use when Config.Logger is nil: the one
// installed with SetLogger, or slog.Default() tagged with the component. The
// default is looked up on every call, so slog.SetDefault takes effect for the
// next launch without any reset.
func Logger() *slog.Logger {
	if l := override.Load(); l != nil {
		return l
	}
	return slog.Default().With("component", "subprocess")
}

// SetLogger installs l for every later launch. Passing nil goes back to the
// default. Launches already running keep the logger they started with.
func SetLogger(l *slog.Logger) {
	override.Store(l)
}
