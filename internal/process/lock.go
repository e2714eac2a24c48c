package process

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// launchLockPoll is how often a blocked launch retries the lock file.
const launchLockPoll = 50 * time.Millisecond

// launchLock serializes launches that name the same lock file, including
// launches in other processes. It is held from before the child starts until
// LaunchAndWait returns.
type launchLock struct {
	fl  *flock.Flock
	log *slog.Logger
}

// lockLaunch blocks until the launch lock at path is held or ctx ends. The
// parent directory is created on first use.
func lockLaunch(ctx context.Context, path string, log *slog.Logger) (*launchLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("launch lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, launchLockPoll)
	if err == nil && !locked {
		err = ctx.Err()
	}
	if err != nil {
		_ = fl.Close()
		return nil, fmt.Errorf("launch lock %s: %w", path, err)
	}

	log.Debug("launch lock held", "path", path)
	return &launchLock{fl: fl, log: log}, nil
}

// unlock lets the next launch waiting on the same file proceed. The file is
// not removed, since another process may already hold a lock on it.
func (l *launchLock) unlock() {
	if l == nil {
		return
	}
	if err := l.fl.Close(); err != nil {
		l.log.Debug("launch lock release failed", "path", l.fl.Path(), "err", err)
	}
}
