package subprocess

import (
	"time"

	"github.com/giantswarm/subprocess/internal/process"
)

// Default configuration values for LaunchAndWait, LaunchCmd and Run.
// These constants are exported so callers can derive their own values from
// them (e.g., 3 * DefaultDrainTimeout).
const (
	// DefaultDrainTimeout is how long output streams may stay open after the
	// child exits before they are closed and the outcome is DrainTimeout.
	// Streams normally close together with the child; they outlive it only
	// when a background grandchild inherited them.
	DefaultDrainTimeout = 10 * time.Second

	// DefaultStopGracePeriod is the delay between SIGTERM and SIGKILL when the
	// context ends before the child exits.
	DefaultStopGracePeriod = process.DefaultStopGracePeriod
)
