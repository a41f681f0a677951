package syncer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const LockFileName = ".flickrsync.lock"

var ErrFolderLocked = errors.New("photo folder locked by another process")

// RunLock keeps two runs from working on the same photo folder.
type RunLock struct {
	flock *flock.Flock
}

func NewRunLock(folder string) *RunLock {
	return &RunLock{flock: flock.New(filepath.Join(folder, LockFileName))}
}

func (l *RunLock) Path() string {
	return l.flock.Path()
}

func (l *RunLock) Lock() error {
	locked, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock photo folder: %w", err)
	}
	if !locked {
		return ErrFolderLocked
	}
	return nil
}

// Unlock releases the lock and removes the lock file. It is a no-op when
// this process does not hold the lock.
func (l *RunLock) Unlock() error {
	if !l.flock.Locked() {
		return nil
	}

	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock photo folder: %w", err)
	}

	if err := os.Remove(l.flock.Path()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
