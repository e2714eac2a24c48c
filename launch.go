package subprocess

import (
	"context"
	"os/exec"

	"github.com/giantswarm/subprocess/internal/process"
)

// LaunchAndWait starts the child described by d, drains its attached outputs
// while it runs and returns once it has exited and every output is closed.
//
// It never panics and never blocks forever on output: failures are reported
// through the returned Outcome. When ctx ends first the child is terminated
// and the Outcome is Cancelled.
//
// d is claimed by the call even when the launch fails; build a new Descriptor
// to try again.
func LaunchAndWait(ctx context.Context, d *Descriptor, opts ...Option) Outcome {
	return newOutcome(launchDescriptor(ctx, d, newConfig(opts)))
}

// LaunchCmd is LaunchAndWait for a caller-built *exec.Cmd. A non-nil stdout
// or stderr is attached like a Descriptor stream and requires the matching
// cmd field to be nil. Writers other than *os.File that the caller set on
// cmd directly are fed the same way as a Stream Writer, so the drain timeout
// and DrainFailed apply to them too.
//
// cmd must not have been started. It is started at most once.
func LaunchCmd(ctx context.Context, cmd *exec.Cmd, stdout, stderr *Stream, opts ...Option) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := newConfig(opts)
	return newOutcome(process.LaunchAndWait(ctx, cmd, cfg.processConfig(stdout, stderr)))
}

func launchDescriptor(ctx context.Context, d *Descriptor, cfg config) process.Result {
	if ctx == nil {
		ctx = context.Background()
	}
	if d == nil {
		return invalidResult(ErrNilDescriptor)
	}
	if err := d.validate(); err != nil {
		return invalidResult(err)
	}
	if !d.started.CompareAndSwap(false, true) {
		return invalidResult(ErrAlreadyStarted)
	}
	return process.LaunchAndWait(ctx, d.command(), cfg.processConfig(d.Stdout, d.Stderr))
}

func invalidResult(err error) process.Result {
	return process.Result{Kind: InvalidState, Err: err, ExitCode: -1}
}
