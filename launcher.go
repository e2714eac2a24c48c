package subprocess

import "context"

// launcher implements Launcher with options resolved once at construction.
type launcher struct {
	cfg config
}

// NewLauncher returns a Launcher that applies opts to every call.
// Options panic on invalid values here, not at call time.
func NewLauncher(opts ...Option) Launcher {
	return &launcher{cfg: newConfig(opts)}
}

func (l *launcher) LaunchAndWait(ctx context.Context, d *Descriptor) Outcome {
	return newOutcome(launchDescriptor(ctx, d, l.cfg))
}

func (l *launcher) Run(ctx context.Context, command string, args ...string) (Result, error) {
	return run(ctx, command, args, l.cfg)
}
