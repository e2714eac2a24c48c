package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// Config controls a single LaunchAndWait call.
type Config struct {
	Stdout *StreamConfig // Attach and drain stdout; nil leaves cmd.Stdout alone
	Stderr *StreamConfig // Attach and drain stderr; nil leaves cmd.Stderr alone

	// DrainTimeout bounds how long output streams may stay open after the
	// process exits. Zero blocks until every stream closes.
	DrainTimeout time.Duration

	// StopGracePeriod is the delay between SIGTERM and SIGKILL on
	// cancellation. Zero uses DefaultStopGracePeriod.
	StopGracePeriod time.Duration

	// LockPath, if set, names a file locked exclusively for the whole call.
	LockPath string

	// Logger (optional, defaults to Logger())
	Logger *slog.Logger
}

// Result is the terminal outcome of LaunchAndWait. Kind is empty when the
// process ran to completion, whatever its exit code.
type Result struct {
	Kind     Kind
	Err      error // Native cause; nil when Kind is empty
	PID      int
	ExitCode int    // -1 if the process never started, or was killed by a signal
	Signal   string // Name of the terminating signal, if any
	Stdout   StreamResult
	Stderr   StreamResult
	Duration time.Duration
}

func failed(kind Kind, err error) Result {
	return Result{Kind: kind, Err: err, ExitCode: -1}
}

// LaunchAndWait starts cmd, drains the attached streams while waiting for the
// process to exit, and returns one Result. It never panics on a bad cmd and
// never returns while a goroutine it started still reads a pipe.
//
// The ordering is what prevents the pipe-buffer deadlock: the drain loops are
// running before the goroutine blocking in cmd.Wait is created, so a child
// writing more than the pipe capacity always has a reader.
func LaunchAndWait(ctx context.Context, cmd *exec.Cmd, cfg Config) Result {
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	if err := validate(cmd, cfg); err != nil {
		return failed(InvalidState, err)
	}
	name := filepath.Base(cmd.Path)

	if err := ctx.Err(); err != nil {
		return failed(Cancelled, err)
	}

	if cfg.LockPath != "" {
		lock, err := lockLaunch(ctx, cfg.LockPath, log)
		if err != nil {
			if ctx.Err() != nil {
				return failed(Cancelled, err)
			}
			return failed(LaunchFailed, fmt.Errorf("%w: %w", ErrLock, err))
		}
		defer lock.unlock()
	}

	stdout, stderr, err := attach(cmd, cfg)
	if err != nil {
		return failed(LaunchFailed, err)
	}
	drains := make([]*drainer, 0, 2)
	for _, d := range []*drainer{stdout, stderr} {
		if d != nil {
			drains = append(drains, d)
		}
	}

	configureSysProcAttr(cmd)
	// Bounds exec's copying goroutine for a caller-supplied stdin reader.
	if cmd.WaitDelay == 0 && cfg.DrainTimeout > 0 {
		cmd.WaitDelay = cfg.DrainTimeout
	}

	startTime := time.Now()
	if err := startCmd(cmd); err != nil {
		for _, d := range drains {
			d.release()
		}
		log.Debug("process launch failed", "process", name, "error", err)
		return failed(LaunchFailed, err)
	}
	pid := cmd.Process.Pid
	log.Debug("process started", "process", name, "pid", pid)

	var g errgroup.Group
	for _, d := range drains {
		d.closeWriteEnd()
		g.Go(d.run)
	}

	// cmd.Wait must be called exactly once; done is the only consumer.
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	res := Result{PID: pid}
	waited := true
	var waitErr error
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		res.Kind, res.Err = Cancelled, ctx.Err()
		log.Debug("context done; terminating process", "process", name, "pid", pid)
		waited, waitErr = terminate(cmd, done, cfg.StopGracePeriod)
		if !waited {
			log.Warn("process did not report exit after SIGKILL; abandoning wait",
				"process", name, "pid", pid)
		}
	}

	joinTimeout := cfg.DrainTimeout
	if res.Kind == Cancelled && (joinTimeout <= 0 || joinTimeout > killDrainTimeout) {
		joinTimeout = killDrainTimeout
	}
	drainErr := joinDrains(&g, drains, joinTimeout)
	res.Stdout = stdout.result()
	res.Stderr = stderr.result()
	if errors.Is(drainErr, DrainTimeout) {
		log.Warn("output streams still open after process exit; closed them",
			"process", name,
			"pid", pid,
			"timeout", joinTimeout,
			"stdout_read", humanize.Bytes(uint64(res.Stdout.Bytes)),
			"stderr_read", humanize.Bytes(uint64(res.Stderr.Bytes)))
	}

	if waited {
		res.ExitCode, res.Signal = exitStatus(cmd.ProcessState)
	} else {
		res.ExitCode = -1
	}
	if res.Kind == "" {
		res.Kind, res.Err = classify(name, waitErr, drainErr)
	}

	res.Duration = time.Since(startTime)

	log.Debug("process finished",
		"process", name,
		"pid", pid,
		"exit_code", res.ExitCode,
		"kind", string(res.Kind),
		"stdout", humanize.Bytes(uint64(res.Stdout.Bytes)),
		"stderr", humanize.Bytes(uint64(res.Stderr.Bytes)),
		"elapsed", res.Duration)
	return res
}

func validate(cmd *exec.Cmd, cfg Config) error {
	if cmd == nil {
		return ErrNilCmd
	}
	if cmd.Path == "" {
		return ErrEmptyCmdPath
	}
	if cmd.Process != nil {
		return ErrAlreadyStarted
	}
	if cfg.Stdout != nil && cmd.Stdout != nil {
		return fmt.Errorf("stdout: %w", ErrStreamInUse)
	}
	if cfg.Stderr != nil && cmd.Stderr != nil {
		return fmt.Errorf("stderr: %w", ErrStreamInUse)
	}
	return nil
}

// attach creates a pipe for every configured stream and hands the write ends
// to cmd. A writer the caller set on cmd directly is moved behind a
// discarding drainer that forwards to it, so it is bounded by the same join as
// the configured streams whatever the exit code. On error nothing is left open.
func attach(cmd *exec.Cmd, cfg Config) (stdout, stderr *drainer, err error) {
	outCfg, errCfg := cfg.Stdout, cfg.Stderr
	if outCfg == nil && forwardable(cmd.Stdout) {
		outCfg = &StreamConfig{Discard: true, Writer: cmd.Stdout}
		cmd.Stdout = nil
	}
	// exec shares one pipe when both fds use the same writer, so the writer
	// never sees concurrent calls. Keep that guarantee.
	shareStderr := errCfg == nil && cfg.Stdout == nil && forwardable(cmd.Stderr) &&
		outCfg != nil && sameWriter(cmd.Stderr, outCfg.Writer)
	if errCfg == nil && !shareStderr && forwardable(cmd.Stderr) {
		errCfg = &StreamConfig{Discard: true, Writer: cmd.Stderr}
		cmd.Stderr = nil
	}

	if outCfg != nil {
		d, w, err := newPipeDrainer("stdout", *outCfg)
		if err != nil {
			return nil, nil, err
		}
		cmd.Stdout = w
		stdout = d
	}
	if shareStderr {
		cmd.Stderr = cmd.Stdout
		return stdout, nil, nil
	}
	if errCfg != nil {
		d, w, err := newPipeDrainer("stderr", *errCfg)
		if err != nil {
			stdout.release()
			return nil, nil, err
		}
		cmd.Stderr = w
		stderr = d
	}
	return stdout, stderr, nil
}

// forwardable reports whether w is a writer exec would copy into from its own
// goroutine. An *os.File is handed to the child as is and needs no draining.
func forwardable(w io.Writer) bool {
	if w == nil {
		return false
	}
	_, isFile := w.(*os.File)
	return !isFile
}

// sameWriter compares two writers the way exec does, treating writers of
// non-comparable types as distinct.
func sameWriter(a, b io.Writer) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// startCmd is the one place a native launch fault is translated. A panic
// while starting is returned as an error like any other start failure.
func startCmd(cmd *exec.Cmd) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("start %s: %v", cmd.Path, r)
		}
	}()
	return cmd.Start()
}

// joinDrains waits for every drain loop. If they are still running after
// timeout, their read ends are closed and the loops are joined again, which
// cannot block: a closed pipe fails the pending Read immediately.
//
// Returns a DrainTimeout *Error on timeout, otherwise the first drain error.
func joinDrains(g *errgroup.Group, drains []*drainer, timeout time.Duration) error {
	joined := make(chan error, 1)
	go func() {
		joined <- g.Wait()
	}()

	ok, err := receiveWithin(joined, timeout)
	if ok {
		return err
	}
	for _, d := range drains {
		d.abort()
	}
	<-joined
	return &Error{Kind: DrainTimeout, Err: fmt.Errorf("streams still open %s after exit", timeout)}
}

// classify picks the Kind of a call that was not cancelled. A non-zero exit
// is not a failure.
func classify(name string, waitErr, drainErr error) (Kind, error) {
	var kindErr *Error
	switch {
	case errors.As(drainErr, &kindErr):
		return kindErr.Kind, kindErr.Err
	case drainErr != nil:
		return DrainFailed, drainErr
	case errors.Is(waitErr, exec.ErrWaitDelay):
		return DrainTimeout, fmt.Errorf("%s: %w", name, waitErr)
	case waitErr != nil && !isExitError(waitErr):
		return DrainFailed, fmt.Errorf("%s: %w", name, waitErr)
	}
	return "", nil
}
