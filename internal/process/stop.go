package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// DefaultStopGracePeriod is the time between SIGTERM and SIGKILL when a
// launch is cancelled and no grace period is configured.
const DefaultStopGracePeriod = 5 * time.Second

// killDrainTimeout bounds every receive that should complete almost
// immediately after SIGKILL or after the process has already exited: the
// cmd.Wait result on cancellation and the drain join on cancellation. It only
// fires if the kernel never reports the exit or a stream is held open by a
// process outside our reach.
const killDrainTimeout = 10 * time.Second

// receiveWithin reads from ch with timeout as an upper bound. A non-positive
// timeout blocks until a value arrives.
//
// Returns true and the received error if the channel delivered in time, or
// false and a nil error if the timeout elapsed.
func receiveWithin(ch <-chan error, timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		return true, <-ch
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case err := <-ch:
		return true, err
	case <-t.C:
		return false, nil
	}
}

// terminate stops a running child whose single cmd.Wait goroutine delivers on
// done:
//  1. SIGTERM to the child (its process group where one was created).
//  2. SIGKILL after grace unless the child exited first.
//  3. Collect the Wait result, bounded by grace + killDrainTimeout.
//  4. SIGKILL to the group again so no descendant keeps running.
//
// ok is false if Wait never delivered; the caller must not touch
// cmd.ProcessState in that case.
func terminate(cmd *exec.Cmd, done <-chan error, grace time.Duration) (ok bool, waitErr error) {
	if grace <= 0 {
		grace = DefaultStopGracePeriod
	}
	defer func() {
		if ok {
			_ = signalGroup(cmd, syscall.SIGKILL)
		}
	}()

	if err := signalGroup(cmd, syscall.SIGTERM); err != nil {
		// Already gone; only the reaping is left.
		return receiveWithin(done, killDrainTimeout)
	}

	// Kill on an exited process returns an error that is safe to discard.
	killTimer := time.AfterFunc(grace, func() {
		_ = signalGroup(cmd, syscall.SIGKILL)
	})
	defer killTimer.Stop()

	return receiveWithin(done, grace+killDrainTimeout)
}

// exitStatus converts a ProcessState into the exit code and, for a child
// killed by a signal, the signal name. Signalled children report -1, matching
// os.ProcessState.ExitCode.
func exitStatus(ps *os.ProcessState) (int, string) {
	if ps == nil {
		return -1, ""
	}
	if status, ok := ps.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return -1, status.Signal().String()
	}
	return ps.ExitCode(), ""
}

// isExitError reports whether err only says the child exited unsuccessfully,
// which is data rather than a failure of the launch.
func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
