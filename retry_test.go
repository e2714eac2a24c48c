package subprocess_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/giantswarm/subprocess"
)

func TestRetryLaunch(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing")
	policy := subprocess.RetryPolicy{Attempts: 4, Delay: time.Millisecond, Factor: 2}

	tests := map[string]struct {
		// scripts[i] is run on attempt i; "" means a missing executable.
		scripts      []string
		wantKind     subprocess.ErrorKind
		wantExitCode int
		wantAttempts int
	}{
		"succeeds first time":        {scripts: []string{"exit 0"}, wantAttempts: 1},
		"recovers from launch error": {scripts: []string{"", "", "exit 0"}, wantAttempts: 3},
		"non-zero exit not retried":  {scripts: []string{"exit 7"}, wantExitCode: 7, wantAttempts: 1},
		"gives up after attempts":    {scripts: []string{"", "", "", "", "exit 0"}, wantKind: subprocess.LaunchFailed, wantExitCode: -1, wantAttempts: 4},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			attempts := 0
			build := func() *subprocess.Descriptor {
				script := tc.scripts[attempts]
				attempts++
				if script == "" {
					return &subprocess.Descriptor{Path: missing}
				}
				return shell(script)
			}

			out := subprocess.RetryLaunch(context.Background(), policy, build)
			if out.Kind != tc.wantKind {
				t.Errorf("Kind = %q, want %q (outcome %v)", out.Kind, tc.wantKind, out)
			}
			if out.ExitCode != tc.wantExitCode {
				t.Errorf("ExitCode = %d, want %d", out.ExitCode, tc.wantExitCode)
			}
			if attempts != tc.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tc.wantAttempts)
			}
		})
	}
}

func TestRetryLaunchInvalidInputNotRetried(t *testing.T) {
	t.Parallel()

	policy := subprocess.RetryPolicy{Attempts: 3}

	calls := 0
	out := subprocess.RetryLaunch(context.Background(), policy, func() *subprocess.Descriptor {
		calls++
		return nil
	})
	if out.Kind != subprocess.InvalidState || calls != 1 {
		t.Errorf("Kind = %q after %d calls, want %q after 1", out.Kind, calls, subprocess.InvalidState)
	}

	out = subprocess.RetryLaunch(context.Background(), policy, nil)
	if !errors.Is(out.Err(), subprocess.ErrNilDescriptor) {
		t.Errorf("nil build: Err() = %v, want ErrNilDescriptor", out.Err())
	}
}

func TestRetryLaunchCancelledWhileWaiting(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(50*time.Millisecond, cancel)

	missing := filepath.Join(t.TempDir(), "missing")
	policy := subprocess.RetryPolicy{Attempts: 5, Delay: time.Hour}

	calls := 0
	out := subprocess.RetryLaunch(ctx, policy, func() *subprocess.Descriptor {
		calls++
		return &subprocess.Descriptor{Path: missing}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if out.Kind != subprocess.Cancelled {
		t.Errorf("Kind = %q, want %q", out.Kind, subprocess.Cancelled)
	}
	if !errors.Is(out.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want match for context.Canceled", out.Err())
	}
}
