package subprocess

import (
	"fmt"
	"time"

	"github.com/giantswarm/subprocess/internal/process"
)

// Outcome is the single result of a launch. Either the child ran to
// completion (Kind is empty, ExitCode is set) or the launch failed (Kind and
// Message are set). A non-zero exit code is a completed launch, not a failure.
//
// Outcome is a value; copies are independent except for the Stdout and Stderr
// slices, which the caller owns.
type Outcome struct {
	Kind    ErrorKind // Empty when the child completed
	Message string    // Native cause of the failure; empty when completed

	// ExitCode is the exit status of the child, or -1 if it never started,
	// was killed by a signal or its exit could not be collected.
	ExitCode int
	Signal   string // Name of the signal that killed the child, if any
	PID      int    // 0 if the child never started

	Stdout          []byte // Nil unless stdout was attached and kept
	Stderr          []byte // Nil unless stderr was attached and kept
	StdoutBytes     int64  // Total bytes read from stdout
	StderrBytes     int64  // Total bytes read from stderr
	StdoutTruncated bool
	StderrTruncated bool

	Duration time.Duration // From start to return; 0 if the child never started

	cause error
}

func newOutcome(r process.Result) Outcome {
	o := Outcome{
		Kind:            r.Kind,
		ExitCode:        r.ExitCode,
		Signal:          r.Signal,
		PID:             r.PID,
		Stdout:          r.Stdout.Data,
		Stderr:          r.Stderr.Data,
		StdoutBytes:     r.Stdout.Bytes,
		StderrBytes:     r.Stderr.Bytes,
		StdoutTruncated: r.Stdout.Truncated,
		StderrTruncated: r.Stderr.Truncated,
		Duration:        r.Duration,
		cause:           r.Err,
	}
	if r.Err != nil {
		o.Message = r.Err.Error()
	}
	return o
}

// Completed reports whether the child ran to completion. The exit code may
// still be non-zero.
func (o Outcome) Completed() bool {
	return o.Kind == ""
}

// Success reports whether the child completed with exit code 0.
func (o Outcome) Success() bool {
	return o.Completed() && o.ExitCode == 0
}

// Err returns nil for a completed outcome and a *Error otherwise. The error
// matches its ErrorKind and its cause with errors.Is.
func (o Outcome) Err() error {
	if o.Completed() {
		return nil
	}
	return &Error{Kind: o.Kind, Err: o.cause}
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch {
	case !o.Completed():
		return fmt.Sprintf("failed (%s): %s", o.Kind, o.Message)
	case o.Signal != "":
		return "completed: signal " + o.Signal
	}
	return fmt.Sprintf("completed: exit code %d", o.ExitCode)
}
