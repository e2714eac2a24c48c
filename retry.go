package subprocess

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/giantswarm/subprocess/internal/process"
)

// RetryPolicy configures RetryLaunch. The zero value makes a single attempt.
type RetryPolicy struct {
	Attempts int           // Maximum number of launches; values below 1 mean 1
	Delay    time.Duration // Wait before the second attempt
	Factor   float64       // Delay multiplier per attempt; values below 1 keep Delay constant
	Jitter   float64       // Adds up to Jitter*delay of random wait, if > 0
}

func (p RetryPolicy) backoff() wait.Backoff {
	factor := p.Factor
	if factor < 1 {
		factor = 1
	}
	return wait.Backoff{
		Steps:    max(p.Attempts, 1),
		Duration: p.Delay,
		Factor:   factor,
		Jitter:   p.Jitter,
	}
}

// RetryLaunch launches a fresh Descriptor from build until an attempt
// returns anything other than LaunchFailed, policy runs out of attempts or
// ctx ends. A child that ran is never launched again, whatever its exit code.
//
// The last Outcome is returned. If ctx ends before any child has run, the
// Outcome is Cancelled.
func RetryLaunch(ctx context.Context, policy RetryPolicy, build func() *Descriptor, opts ...Option) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	if build == nil {
		return newOutcome(invalidResult(ErrNilDescriptor))
	}
	cfg := newConfig(opts)
	res := process.RetryLaunchFailures(ctx, policy.backoff(), func(ctx context.Context) process.Result {
		return launchDescriptor(ctx, build(), cfg)
	})
	return newOutcome(res)
}
