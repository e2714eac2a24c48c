package subprocess

import (
	"fmt"
	"io"
	"os/exec"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/giantswarm/subprocess/internal/process"
)

// Descriptor describes one child process to launch. A Descriptor is single
// use: the first LaunchAndWait call claims it and every later call, including
// a concurrent one, fails with InvalidState and ErrAlreadyStarted.
//
// Fields must not be modified while a call using the Descriptor is running.
type Descriptor struct {
	// Path is the executable to run. It is used as is and not searched for
	// in $PATH; see LookPath. A relative Path is resolved against Dir.
	Path string

	// Args are the arguments, not including the program name.
	Args []string

	// Dir is the working directory of the child. Empty means the current
	// directory of the caller.
	Dir string

	// Env is the exact environment of the child. A nil map inherits the
	// environment of the caller; an empty non-nil map gives the child none.
	Env map[string]string

	// Stdin is read by the child. Nil means the null device.
	Stdin io.Reader

	// Stdout and Stderr attach the corresponding output of the child. A nil
	// Stream sends the output to the null device.
	Stdout *Stream
	Stderr *Stream

	started atomic.Bool
}

// Started reports whether the descriptor has already been claimed by a launch.
func (d *Descriptor) Started() bool {
	return d.started.Load()
}

// Stream configures one attached output of the child. The output is always
// read until the child closes it, whatever the settings, so the child never
// blocks on a full pipe.
type Stream struct {
	// Discard drops everything read instead of keeping it.
	Discard bool

	// Writer, if set, receives a copy of every chunk as it is read. If it
	// returns an error it gets no more data, reading continues and the
	// outcome is DrainFailed.
	//
	// Writer must not block indefinitely. The drain timeout closes the pipe
	// but cannot interrupt a Write in progress, so LaunchAndWait returns
	// only once Writer does.
	Writer io.Writer

	// Limit caps how many bytes are kept; later bytes are counted and
	// dropped. Zero means unlimited.
	Limit int
}

func (s *Stream) streamConfig() *process.StreamConfig {
	if s == nil {
		return nil
	}
	return &process.StreamConfig{
		Discard: s.Discard,
		Writer:  s.Writer,
		Limit:   s.Limit,
	}
}

// validate checks everything that can be checked without claiming d.
func (d *Descriptor) validate() error {
	if d.Path == "" {
		return ErrEmptyPath
	}
	for k := range d.Env {
		if k == "" || strings.ContainsAny(k, "=\x00") {
			return fmt.Errorf("%q: %w", k, ErrInvalidEnv)
		}
	}
	if d.Stdout != nil && d.Stdout.Limit < 0 {
		return fmt.Errorf("stdout limit %d must not be negative", d.Stdout.Limit)
	}
	if d.Stderr != nil && d.Stderr.Limit < 0 {
		return fmt.Errorf("stderr limit %d must not be negative", d.Stderr.Limit)
	}
	return nil
}

// command builds the exec.Cmd for d. Path is not resolved, unlike
// exec.Command.
func (d *Descriptor) command() *exec.Cmd {
	cmd := &exec.Cmd{
		Path:  d.Path,
		Args:  append([]string{d.Path}, d.Args...),
		Dir:   d.Dir,
		Stdin: d.Stdin,
	}
	if d.Env != nil {
		cmd.Env = envList(d.Env)
	}
	return cmd
}

// envList returns env as sorted "key=value" entries. An empty map yields an
// empty non-nil slice, which exec treats as "no environment".
func envList(env map[string]string) []string {
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	slices.Sort(list)
	return list
}
