package subprocess_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"

	"github.com/giantswarm/subprocess"
)

const (
	testCommand     = "true"
	testCommandPath = "/usr/bin"
)

// requireTestCommand skips the test when /usr/bin/true is not available.
func requireTestCommand(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(testCommandPath, testCommand)); err != nil {
		t.Skipf("%s not available: %v", filepath.Join(testCommandPath, testCommand), err)
	}
}

func TestRunPathResolution(t *testing.T) {
	t.Parallel()
	requireTestCommand(t)

	badCommand := uuid.NewString()

	tests := map[string]struct {
		command string
		opts    []subprocess.Option
		found   bool
	}{
		"absolute path exists":                {command: testCommandPath + "/" + testCommand, opts: []subprocess.Option{subprocess.WithSearchPath(testCommandPath)}, found: true},
		"absolute path exists, empty path":    {command: testCommandPath + "/" + testCommand, opts: []subprocess.Option{subprocess.WithSearchPath()}, found: true},
		"absolute path missing":               {command: testCommandPath + "/" + badCommand, opts: []subprocess.Option{subprocess.WithSearchPath(testCommandPath)}},
		"absolute path missing, empty path":   {command: testCommandPath + "/" + badCommand, opts: []subprocess.Option{subprocess.WithSearchPath()}},
		"relative path exists":                {command: "./" + testCommand, opts: []subprocess.Option{subprocess.WithSearchPath(testCommandPath), subprocess.WithWorkingDirectory(testCommandPath)}, found: true},
		"relative path exists, empty path":    {command: "./" + testCommand, opts: []subprocess.Option{subprocess.WithSearchPath(), subprocess.WithWorkingDirectory(testCommandPath)}, found: true},
		"relative path missing":               {command: "./" + badCommand, opts: []subprocess.Option{subprocess.WithSearchPath(testCommandPath), subprocess.WithWorkingDirectory(testCommandPath)}},
		"relative path missing, empty path":   {command: "./" + badCommand, opts: []subprocess.Option{subprocess.WithSearchPath(), subprocess.WithWorkingDirectory(testCommandPath)}},
		"name only exists":                    {command: testCommand, opts: []subprocess.Option{subprocess.WithSearchPath(testCommandPath)}, found: true},
		"name only, empty path":               {command: testCommand, opts: []subprocess.Option{subprocess.WithSearchPath()}},
		"name only missing":                   {command: badCommand, opts: []subprocess.Option{subprocess.WithSearchPath(testCommandPath)}},
		"name only missing, empty path":       {command: badCommand, opts: []subprocess.Option{subprocess.WithSearchPath()}},
		"name only in working directory only": {command: testCommand, opts: []subprocess.Option{subprocess.WithSearchPath(), subprocess.WithWorkingDirectory(testCommandPath)}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := subprocess.Run(context.Background(), tc.command, nil, tc.opts...)
			if !tc.found {
				var notFound *subprocess.CommandNotFoundError
				if !errors.As(err, &notFound) {
					t.Fatalf("Run() error = %v, want *CommandNotFoundError", err)
				}
				if notFound.Command != tc.command {
					t.Errorf("Command = %q, want %q", notFound.Command, tc.command)
				}
				if !errors.Is(err, subprocess.ErrCommandNotFound) {
					t.Errorf("Run() error = %v, want match for ErrCommandNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !res.Success() {
				t.Errorf("TerminationStatus = %d, want 0", res.TerminationStatus)
			}
		})
	}
}

func TestRunListsDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "marker", 0o644)

	res, err := subprocess.Run(context.Background(), "ls", []string{"-l"}, subprocess.WithWorkingDirectory(dir))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.TerminationStatus != 0 {
		t.Errorf("TerminationStatus = %d, want 0", res.TerminationStatus)
	}
	if !strings.Contains(res.Stdout, "marker") {
		t.Errorf("stdout = %q, want it to list marker", res.Stdout)
	}
}

func TestRunOutput(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		script        string
		opts          []subprocess.Option
		wantStatus    int
		wantStdout    string
		wantStderr    string
		wantTruncated bool // stdout
	}{
		"both streams": {
			script:     "echo out; echo err >&2",
			wantStdout: "out\n",
			wantStderr: "err\n",
		},
		"non-zero status is not an error": {
			script:     "echo failing >&2; exit 3",
			wantStatus: 3,
			wantStderr: "failing\n",
		},
		"utf-8": {
			script:     "printf 'gr\\303\\274\\303\\237e'",
			wantStdout: "grüße",
		},
		"latin-1": {
			script:     "printf 'caf\\351'",
			opts:       []subprocess.Option{subprocess.WithEncoding(charmap.ISO8859_1)},
			wantStdout: "café",
		},
		"output limit": {
			script:        "printf 0123456789; printf abcdefghij >&2",
			opts:          []subprocess.Option{subprocess.WithOutputLimit(4)},
			wantStdout:    "0123",
			wantStderr:    "abcd",
			wantTruncated: true,
		},
		"output limit splits a character": {
			script:        "printf 'h\\303\\251llo'; printf '\\342\\202\\254\\342\\202\\254' >&2",
			opts:          []subprocess.Option{subprocess.WithOutputLimit(2)},
			wantStdout:    "h",
			wantStderr:    "",
			wantTruncated: true,
		},
		"output limit splits a shift-jis character": {
			script:        "printf 'a\\223\\372'",
			opts:          []subprocess.Option{subprocess.WithEncoding(japanese.ShiftJIS), subprocess.WithOutputLimit(2)},
			wantStdout:    "a",
			wantTruncated: true,
		},
		"shift-jis": {
			script:     "printf 'a\\223\\372'",
			opts:       []subprocess.Option{subprocess.WithEncoding(japanese.ShiftJIS)},
			wantStdout: "a日",
		},
		"output limit on a character boundary": {
			script:        "printf 'h\\303\\251llo'; printf 'ok' >&2",
			opts:          []subprocess.Option{subprocess.WithOutputLimit(3)},
			wantStdout:    "hé",
			wantStderr:    "ok",
			wantTruncated: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := subprocess.Run(context.Background(), "/bin/sh", []string{"-c", tc.script}, tc.opts...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.TerminationStatus != tc.wantStatus {
				t.Errorf("TerminationStatus = %d, want %d", res.TerminationStatus, tc.wantStatus)
			}
			if res.Stdout != tc.wantStdout {
				t.Errorf("Stdout = %q, want %q", res.Stdout, tc.wantStdout)
			}
			if res.Stderr != tc.wantStderr {
				t.Errorf("Stderr = %q, want %q", res.Stderr, tc.wantStderr)
			}
			if res.StdoutTruncated != tc.wantTruncated {
				t.Errorf("StdoutTruncated = %v, want %v", res.StdoutTruncated, tc.wantTruncated)
			}
		})
	}
}

func TestRunDecodeError(t *testing.T) {
	t.Parallel()

	_, err := subprocess.Run(context.Background(), "/bin/sh", []string{"-c", "printf ok; printf '\\377\\376' >&2"})
	if !errors.Is(err, subprocess.ErrDecode) {
		t.Fatalf("Run() error = %v, want match for ErrDecode", err)
	}
	var decodeErr *subprocess.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Run() error = %T, want *DecodeError", err)
	}
	if decodeErr.Stream != "stderr" {
		t.Errorf("Stream = %q, want stderr", decodeErr.Stream)
	}
	if string(decodeErr.Data) != "\xff\xfe" {
		t.Errorf("Data = %q, want %q", decodeErr.Data, "\xff\xfe")
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := subprocess.Run(ctx, "/bin/sh", []string{"-c", "exec sleep 60"},
		subprocess.WithStopGracePeriod(time.Second))
	if !errors.Is(err, subprocess.Cancelled) {
		t.Fatalf("Run() error = %v, want match for Cancelled", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want match for context.DeadlineExceeded", err)
	}
}

func TestRunLaunchFailureIsCommandNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	script := writeFile(t, dir, "script", 0o644)

	_, err := subprocess.Run(context.Background(), script, nil)
	if !errors.Is(err, subprocess.ErrCommandNotFound) {
		t.Fatalf("Run() error = %v, want match for ErrCommandNotFound", err)
	}
	if !errors.Is(err, subprocess.LaunchFailed) {
		t.Errorf("Run() error = %v, want match for LaunchFailed", err)
	}
}

func TestRunLockFailureIsNotCommandNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := writeFile(t, dir, "not-a-dir", 0o644)

	_, err := subprocess.Run(context.Background(), "/bin/sh", []string{"-c", "exit 0"},
		subprocess.WithExclusiveLock(filepath.Join(blocker, "launch.lock")))
	if !errors.Is(err, subprocess.ErrLock) {
		t.Fatalf("Run() error = %v, want match for ErrLock", err)
	}
	if errors.Is(err, subprocess.ErrCommandNotFound) {
		t.Errorf("Run() error = %v, an existing command must not be reported as not found", err)
	}
	if !errors.Is(err, subprocess.LaunchFailed) {
		t.Errorf("Run() error = %v, want match for LaunchFailed", err)
	}
}
