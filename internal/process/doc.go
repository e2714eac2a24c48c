// Package process implements the launch-and-wait protocol used by the public
// subprocess package.
//
// LaunchAndWait starts an *exec.Cmd, drains every attached output pipe in its
// own goroutine while a single goroutine blocks in cmd.Wait, joins the drain
// loops with an optional bound, and reports exactly one Result. Failures are
// classified by Kind; nothing in this package panics on bad input.
//
// Supporting pieces: terminate for the SIGTERM-then-SIGKILL sequence used on
// cancellation, lockLaunch for cross-process exclusive launches, and
// RetryLaunchFailures for opt-in backoff retries.
package process
