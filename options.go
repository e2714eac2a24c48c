package subprocess

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/encoding"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("subprocess: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("subprocess: %s must not be empty", name))
	}
}

// Option configures a single LaunchAndWait, LaunchCmd, Run or RetryLaunch
// call, or every call made through a Launcher.
//
// Several With* functions panic on invalid input (empty paths, non-positive
// durations, nil values). Option values are normally constants, so an invalid
// one is a programmer error and is reported as early as possible, like
// [regexp.MustCompile]. A failing launch, on the other hand, is never a panic.
type Option func(*config)

// WithDrainTimeout bounds how long stdout and stderr may stay open after the
// child exits. When it elapses the streams are closed, whatever was read is
// kept and the outcome is DrainTimeout.
//
// Default: 10 seconds.
//
// Panics if d <= 0.
func WithDrainTimeout(d time.Duration) Option {
	requirePositive("drain timeout", d)
	return func(c *config) {
		c.DrainTimeout = d
	}
}

// WithoutDrainTimeout waits for every output stream to close, however long a
// grandchild keeps it open. Only cancellation bounds the wait.
func WithoutDrainTimeout() Option {
	return func(c *config) {
		c.DrainTimeout = 0
	}
}

// WithStopGracePeriod sets the delay between SIGTERM and SIGKILL when the
// context ends before the child exits.
//
// Default: 5 seconds.
//
// Panics if d <= 0.
func WithStopGracePeriod(d time.Duration) Option {
	requirePositive("stop grace period", d)
	return func(c *config) {
		c.StopGracePeriod = d
	}
}

// WithLogger sets the logger for the call, overriding the package logger set
// by SetLogger.
// Panics if l is nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("subprocess: logger must not be nil")
	}
	return func(c *config) {
		c.Logger = l
	}
}

// WithExclusiveLock holds an exclusive file lock on path from before the child
// starts until the call returns, so calls sharing the path run one at a time,
// across processes too. Missing parent directories are created. Waiting for
// the lock is bounded by the context; giving up yields Cancelled.
//
// Panics if path is empty.
func WithExclusiveLock(path string) Option {
	requireNonEmpty("lock path", path)
	return func(c *config) {
		c.LockPath = path
	}
}

// WithSearchPath sets the directories Run searches for a bare command name,
// in order. With no directories, only commands given with a path separator
// can be run.
//
// Default: the directories in $PATH.
func WithSearchPath(dirs ...string) Option {
	path := append([]string(nil), dirs...)
	return func(c *config) {
		c.SearchPath = path
		c.SearchPathSet = true
	}
}

// WithWorkingDirectory sets the directory Run starts the command in. A
// relative command path such as "./tool" is resolved against it.
//
// Default: the current directory.
//
// Panics if dir is empty.
func WithWorkingDirectory(dir string) Option {
	requireNonEmpty("working directory", dir)
	return func(c *config) {
		c.WorkingDirectory = dir
	}
}

// WithEncoding sets the encoding Run decodes stdout and stderr with.
//
// Default: strict UTF-8; invalid sequences fail with a *DecodeError.
//
// Panics if enc is nil.
func WithEncoding(enc encoding.Encoding) Option {
	if enc == nil {
		panic("subprocess: encoding must not be nil")
	}
	return func(c *config) {
		c.Encoding = enc
	}
}

// WithOutputLimit caps how many bytes Run keeps from each stream. The rest is
// read and dropped, so the command never blocks on output.
//
// Default: 0 (unlimited).
//
// Panics if n <= 0.
func WithOutputLimit(n int) Option {
	requirePositive("output limit", n)
	return func(c *config) {
		c.OutputLimit = n
	}
}
