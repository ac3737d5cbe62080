// Package lockfile enforces single-instance execution per job name.
//
// The lock is an OS advisory lock (flock) on <job>/<job>.lock, so it is
// released automatically when the holding process dies: a crashed job never
// leaves a stale lock behind. The lock file itself is left in place; only
// the flock matters.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning reports that another process holds the job's lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Handle is a held job lock.
type Handle struct {
	fl *flock.Flock
}

// Acquire takes the exclusive lock at path without blocking, creating parent
// directories as needed. If another process holds it, ErrAlreadyRunning is
// returned immediately.
func Acquire(path string) (*Handle, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrAlreadyRunning)
	}
	return &Handle{fl: fl}, nil
}

// Release unlocks and closes the lock file. Safe to call once per Handle on
// every exit path; releasing a nil Handle is a no-op.
func (h *Handle) Release() error {
	if h == nil || h.fl == nil {
		return nil
	}
	err := h.fl.Unlock()
	h.fl = nil
	return err
}

// Path returns the lock file location.
func (h *Handle) Path() string {
	if h == nil || h.fl == nil {
		return ""
	}
	return h.fl.Path()
}
