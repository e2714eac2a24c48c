// Package subprocess launches a child process and waits for it without
// crashing the caller and without deadlocking on unread output.
//
// Every call returns exactly one Outcome. A missing executable, a permission
// error or a descriptor that was already used comes back as a failed Outcome
// with an ErrorKind; a non-zero exit code is reported as data on a completed
// Outcome. Output pipes are drained concurrently with the wait, so a child
// that writes megabytes before exiting never blocks on a full pipe.
//
// # Basic Usage
//
//	import "github.com/giantswarm/subprocess"
//
//	d := &subprocess.Descriptor{
//	    Path:   "/usr/bin/git",
//	    Args:   []string{"status", "--porcelain"},
//	    Dir:    repoDir,
//	    Stdout: &subprocess.Stream{},
//	    Stderr: &subprocess.Stream{Limit: 64 << 10},
//	}
//
//	out := subprocess.LaunchAndWait(ctx, d)
//	if err := out.Err(); err != nil {
//	    // errors.Is(err, subprocess.LaunchFailed), ...
//	    return err
//	}
//	fmt.Println(out.ExitCode, string(out.Stdout))
//
// # Running Commands By Name
//
// Run resolves a command against a search path, captures both streams and
// decodes them as text:
//
//	res, err := subprocess.Run(ctx, "ls", []string{"-l"})
//	if errors.Is(err, subprocess.ErrCommandNotFound) {
//	    // not installed
//	}
//	fmt.Print(res.Stdout)
//
// # Cancellation And Timeouts
//
// When ctx ends before the child exits, the child's process group receives
// SIGTERM, then SIGKILL after the stop grace period, and the Outcome is
// Cancelled. Output streams that stay open after the child exits (typically
// held by a background grandchild) are closed after the drain timeout and the
// Outcome is DrainTimeout.
package subprocess
