package subprocess

import (
	"log/slog"

	"github.com/giantswarm/subprocess/internal/process"
)

// SetLogger replaces the package-level logger used by subprocess.
// The provided logger should already have any desired attributes; subprocess
// will not add more. A logger passed with WithLogger takes precedence for
// that call.
//
// If l is nil, launches log to slog.Default() with a "component" attribute.
// That default is resolved per launch, so a later slog.SetDefault is picked up
// without calling SetLogger again.
//
// SetLogger is safe to call concurrently with running launches; a launch
// that already started keeps the logger it started with.
//
// Example:
//
//	subprocess.SetLogger(myLogger.With("component", "subprocess"))
func SetLogger(l *slog.Logger) {
	process.SetLogger(l)
}
