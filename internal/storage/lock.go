package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockTimeout    = 5 * time.Second
	lockRetryDelay = 50 * time.Millisecond
)

// fileLock is an advisory cross-process lock next to the store file.
type fileLock struct {
	flock *flock.Flock
}

func newFileLock(path string) *fileLock {
	return &fileLock{flock: flock.New(path)}
}

// acquire blocks until the lock is held or lockTimeout passes.
func (l *fileLock) acquire() error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := l.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.flock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("acquire lock %s: timed out", l.flock.Path())
	}
	return nil
}

func (l *fileLock) release() error {
	return l.flock.Unlock()
}
