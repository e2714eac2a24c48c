package process

// Compile-time check that Kind implements the error interface.
var _ error = Kind("")

// Kind classifies a failed launch. The zero value means the call completed.
//
// Kind is a string type so the values below can be declared as constants and
// still match with errors.Is through wrapped chains.
type Kind string

// Error implements the error interface.
func (k Kind) Error() string {
	return string(k)
}

const (
	// InvalidState means the command was malformed or already started.
	// Nothing was launched.
	InvalidState Kind = "invalid state"

	// LaunchFailed means the OS refused to create the process.
	LaunchFailed Kind = "launch failed"

	// DrainTimeout means an output stream stayed open longer than the drain
	// timeout after the process exited.
	DrainTimeout Kind = "drain timeout"

	// DrainFailed means reading an output stream, or forwarding it to a
	// caller-supplied writer, returned an error.
	DrainFailed Kind = "drain failed"

	// Cancelled means the context ended before the process exited. The
	// process was terminated before the call returned.
	Cancelled Kind = "cancelled"
)

// Cause is an immutable error value. Unlike errors.New results, causes can be
// declared as constants and cannot be reassigned by importers.
type Cause string

// Error implements the error interface.
func (c Cause) Error() string {
	return string(c)
}

// Causes reported with InvalidState.
const (
	// ErrNilCmd is returned when LaunchAndWait is called with a nil *exec.Cmd.
	ErrNilCmd = Cause("cmd must not be nil")

	// ErrEmptyCmdPath is returned when cmd.Path is empty.
	ErrEmptyCmdPath = Cause("executable path must not be empty")

	// ErrAlreadyStarted is returned when cmd.Process is already set.
	ErrAlreadyStarted = Cause("process already started")

	// ErrStreamInUse is returned when a stream is attached for an fd the
	// cmd already has a writer for.
	ErrStreamInUse = Cause("stream already has a writer")
)

// ErrLock is wrapped into the LaunchFailed cause when the exclusive launch lock
// could not be taken for a reason other than the context ending. The command
// itself was never tried.
const ErrLock = Cause("launch lock not acquired")

// Error carries a Kind together with the native error that caused it.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

// Unwrap exposes both the Kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
