package process

import (
	"context"

	"k8s.io/apimachinery/pkg/util/wait"
)

// RetryLaunchFailures calls launch until it returns anything other than
// LaunchFailed, the backoff runs out of steps, or ctx ends. Only LaunchFailed
// is retried: every other outcome means a process ran, or the input was bad.
//
// When the backoff is exhausted the last LaunchFailed result is returned. When
// ctx ends while still retrying, the result is Cancelled.
func RetryLaunchFailures(ctx context.Context, backoff wait.Backoff, launch func(context.Context) Result) Result {
	if backoff.Steps < 1 {
		backoff.Steps = 1
	}

	var last Result
	attempt := 0
	err := wait.ExponentialBackoffWithContext(ctx, backoff, func(attemptCtx context.Context) (bool, error) {
		attempt++
		last = launch(attemptCtx)
		if last.Kind != LaunchFailed {
			return true, nil
		}
		Logger().Debug("launch failed; retrying", "attempt", attempt, "error", last.Err)
		return false, nil
	})
	if err == nil {
		return last
	}
	if ctx.Err() != nil && (attempt == 0 || last.Kind == LaunchFailed) {
		return failed(Cancelled, ctx.Err())
	}
	return last
}
