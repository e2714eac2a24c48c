package subprocess

import (
	"context"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Result is the decoded result of Run.
type Result struct {
	// TerminationStatus is the exit code of the command, or -1 if it was
	// killed by a signal.
	TerminationStatus int
	Stdout            string
	Stderr            string

	// StdoutTruncated and StderrTruncated are set when WithOutputLimit cut
	// the stream short. A character split by the cut is dropped.
	StdoutTruncated bool
	StderrTruncated bool
}

// Success is shorthand for TerminationStatus == 0.
func (r Result) Success() bool {
	return r.TerminationStatus == 0
}

// Run resolves command, runs it with args, captures both outputs and decodes
// them as text.
//
// command may be an absolute or relative path, or a name looked up in the
// search path (WithSearchPath, default $PATH); see LookPath. A relative path
// is resolved against WithWorkingDirectory when set.
//
// Errors:
//   - *CommandNotFoundError (ErrCommandNotFound) when the command cannot be
//     resolved or the OS refuses to launch it
//   - *DecodeError (ErrDecode) when output is not valid in the encoding
//   - the Outcome error (see Outcome.Err) for any other failure, including
//     cancellation
//
// A non-zero exit status is not an error.
func Run(ctx context.Context, command string, args []string, opts ...Option) (Result, error) {
	return run(ctx, command, args, newConfig(opts))
}

func run(ctx context.Context, command string, args []string, cfg config) (Result, error) {
	searchPath := cfg.SearchPath
	if !cfg.SearchPathSet {
		searchPath = EnvironmentPath()
	}

	launchPath, err := LookPath(command, searchPath)
	if err != nil {
		return Result{}, &CommandNotFoundError{Command: command, Path: searchPath, Err: err}
	}

	d := &Descriptor{
		Path:   launchPath,
		Args:   args,
		Dir:    cfg.WorkingDirectory,
		Stdout: &Stream{Limit: cfg.OutputLimit},
		Stderr: &Stream{Limit: cfg.OutputLimit},
	}
	out := newOutcome(launchDescriptor(ctx, d, cfg))
	switch out.Kind {
	case "":
	case LaunchFailed:
		if errors.Is(out.Err(), ErrLock) {
			return Result{}, out.Err()
		}
		return Result{}, &CommandNotFoundError{Command: command, Path: searchPath, Err: out.Err()}
	default:
		return Result{}, out.Err()
	}

	stdout, err := decode("stdout", out.Stdout, cfg.Encoding, out.StdoutTruncated)
	if err != nil {
		return Result{}, err
	}
	stderr, err := decode("stderr", out.Stderr, cfg.Encoding, out.StderrTruncated)
	if err != nil {
		return Result{}, err
	}

	return Result{
		TerminationStatus: out.ExitCode,
		Stdout:            stdout,
		Stderr:            stderr,
		StdoutTruncated:   out.StdoutTruncated,
		StderrTruncated:   out.StderrTruncated,
	}, nil
}

// decode converts data to a string. A nil enc validates strict UTF-8 and
// keeps the bytes unchanged. When data was truncated, an incomplete
// character at the end is the cut, not invalid input, and is dropped.
func decode(stream string, data []byte, enc encoding.Encoding, truncated bool) (string, error) {
	var t transform.Transformer = encoding.UTF8Validator
	if enc != nil {
		t = enc.NewDecoder()
	}

	var (
		decoded []byte
		err     error
	)
	if truncated {
		decoded, err = decodePrefix(t, data)
	} else {
		decoded, _, err = transform.Bytes(t, data)
	}
	if err != nil {
		return "", &DecodeError{Stream: stream, Data: data, Encoding: enc, Err: err}
	}
	return string(decoded), nil
}

// decodePrefix runs t over src as if more input were to follow, and drops a
// trailing incomplete sequence that t reports with transform.ErrShortSrc.
func decodePrefix(t transform.Transformer, src []byte) ([]byte, error) {
	t.Reset()
	out := make([]byte, 0, len(src))
	// Room for the whole input in one pass: the UTF-8 validator misreports a
	// character split by the end of dst as invalid.
	buf := make([]byte, len(src)*utf8.UTFMax+utf8.UTFMax)
	for {
		nDst, nSrc, err := t.Transform(buf, src, false)
		out = append(out, buf[:nDst]...)
		src = src[nSrc:]
		switch {
		case err == nil, errors.Is(err, transform.ErrShortSrc):
			return out, nil
		case errors.Is(err, transform.ErrShortDst) && (nDst > 0 || nSrc > 0):
			continue
		default:
			return nil, err
		}
	}
}
