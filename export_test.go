package subprocess

import (
	"log/slog"
	"time"

	"golang.org/x/text/encoding"
)

// ConfigSnapshot holds a copy of config fields for test assertions.
// Exported only via export_test.go so that the _test package can verify
// option closures actually mutate the config without accessing internals.
type ConfigSnapshot struct {
	DrainTimeout     time.Duration
	StopGracePeriod  time.Duration
	LockPath         string
	Logger           *slog.Logger
	SearchPath       []string
	SearchPathSet    bool
	WorkingDirectory string
	Encoding         encoding.Encoding
	OutputLimit      int
}

// ApplyOptionsForTesting creates a default config, applies the given options,
// and returns a ConfigSnapshot of the result.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := newConfig(opts)
	return ConfigSnapshot{
		DrainTimeout:     cfg.DrainTimeout,
		StopGracePeriod:  cfg.StopGracePeriod,
		LockPath:         cfg.LockPath,
		Logger:           cfg.Logger,
		SearchPath:       cfg.SearchPath,
		SearchPathSet:    cfg.SearchPathSet,
		WorkingDirectory: cfg.WorkingDirectory,
		Encoding:         cfg.Encoding,
		OutputLimit:      cfg.OutputLimit,
	}
}
