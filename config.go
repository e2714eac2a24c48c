package subprocess

import (
	"log/slog"
	"time"

	"golang.org/x/text/encoding"

	"github.com/giantswarm/subprocess/internal/process"
)

// config holds the settings shared by every entry point. Launch settings are
// converted to process.Config per call; the Run-only fields are ignored by
// LaunchAndWait and LaunchCmd.
type config struct {
	DrainTimeout    time.Duration // 0 means wait for every stream to close
	StopGracePeriod time.Duration
	LockPath        string
	Logger          *slog.Logger

	SearchPath       []string
	SearchPathSet    bool // Distinguishes an empty search path from "use $PATH"
	WorkingDirectory string
	Encoding         encoding.Encoding // nil means strict UTF-8
	OutputLimit      int
}

func defaultConfig() config {
	return config{
		DrainTimeout:    DefaultDrainTimeout,
		StopGracePeriod: DefaultStopGracePeriod,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// processConfig builds the launcher configuration for one call.
func (c config) processConfig(stdout, stderr *Stream) process.Config {
	return process.Config{
		Stdout:          stdout.streamConfig(),
		Stderr:          stderr.streamConfig(),
		DrainTimeout:    c.DrainTimeout,
		StopGracePeriod: c.StopGracePeriod,
		LockPath:        c.LockPath,
		Logger:          c.Logger,
	}
}
