package subprocess

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/giantswarm/subprocess/internal/process"
)

// ErrorKind classifies a failed Outcome. It implements error, so a kind can
// be matched with errors.Is against Outcome.Err.
//
// ErrorKind is a type alias so that the constants below are the values the
// launcher produces, with no conversion between packages.
type ErrorKind = process.Kind

const (
	// InvalidState: the descriptor was nil, malformed or already used.
	// Nothing was launched. Not worth retrying without changing the input.
	InvalidState = process.InvalidState

	// LaunchFailed: the OS refused to create the process (missing
	// executable, permissions, resource limits). The cause carries the
	// native message. The caller may retry after fixing the condition.
	LaunchFailed = process.LaunchFailed

	// DrainTimeout: an output stream stayed open longer than the drain
	// timeout after the process exited. The exit code is still reported.
	DrainTimeout = process.DrainTimeout

	// DrainFailed: reading an output stream, or copying it to a Stream
	// Writer, failed. The exit code is still reported.
	DrainFailed = process.DrainFailed

	// Cancelled: the context ended first. The process was terminated before
	// LaunchAndWait returned.
	Cancelled = process.Cancelled
)

// Error is returned by Outcome.Err. errors.Is matches both its Kind and its
// cause.
type Error = process.Error

// Causes reported with InvalidState. These are immutable constants; match
// them with errors.Is on Outcome.Err.
const (
	// ErrNilDescriptor is reported when LaunchAndWait receives a nil descriptor.
	ErrNilDescriptor = process.Cause("descriptor must not be nil")

	// ErrNilCmd is reported when LaunchCmd receives a nil command.
	ErrNilCmd = process.ErrNilCmd

	// ErrEmptyPath is reported when the executable path is empty.
	ErrEmptyPath = process.ErrEmptyCmdPath

	// ErrAlreadyStarted is reported when a descriptor or command was already
	// launched. Descriptors are single use.
	ErrAlreadyStarted = process.ErrAlreadyStarted

	// ErrInvalidEnv is reported when an environment key is empty or contains
	// '=' or a NUL byte.
	ErrInvalidEnv = process.Cause("invalid environment variable name")

	// ErrStreamInUse is reported by LaunchCmd when a stream is given for an
	// output the command already writes to.
	ErrStreamInUse = process.ErrStreamInUse
)

// ErrLock is part of a LaunchFailed outcome when the lock file named with
// WithExclusiveLock could not be taken. The command was not tried.
const ErrLock = process.ErrLock

const (
	// ErrCommandNotFound is matched by every *CommandNotFoundError.
	ErrCommandNotFound = process.Cause("command not found")

	// ErrDecode is matched by every *DecodeError.
	ErrDecode = process.Cause("cannot decode output")
)

// CommandNotFoundError is returned by Run when the command cannot be resolved
// in the search path or the OS refuses to launch it.
type CommandNotFoundError struct {
	Command string
	Path    []string // Search path that was used
	Err     error    // Lookup or launch failure
}

// Error implements the error interface.
func (e *CommandNotFoundError) Error() string {
	msg := fmt.Sprintf("command %q not found in path [%s]", e.Command, strings.Join(e.Path, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes ErrCommandNotFound and the underlying cause.
func (e *CommandNotFoundError) Unwrap() []error {
	return []error{ErrCommandNotFound, e.Err}
}

// DecodeError is returned by Run when captured output is not valid in the
// requested encoding.
type DecodeError struct {
	Stream   string // "stdout" or "stderr"
	Data     []byte
	Encoding encoding.Encoding // nil means strict UTF-8
	Err      error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	enc := "utf-8"
	if e.Encoding != nil {
		enc = fmt.Sprint(e.Encoding)
	}
	return fmt.Sprintf("decode %s (%d bytes) as %s: %v", e.Stream, len(e.Data), enc, e.Err)
}

// Unwrap exposes ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}
