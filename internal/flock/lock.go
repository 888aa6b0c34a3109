package flock

import (
	"context"
	"fmt"
	"os"
	"time"

	shipyarderrors "github.com/mrz1836/shipyard/internal/errors"
)

// Lock is a held exclusive lock on a lock file.
type Lock struct {
	f *os.File
}

// Acquire opens (creating if needed) the lock file at path and retries an
// exclusive non-blocking lock every interval until it succeeds, ctx is done,
// or timeout elapses. A timeout yields ErrLockTimeout.
func Acquire(ctx context.Context, path string, timeout, interval time.Duration) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //#nosec G302,G304 -- lock file needs write access, path is constructed by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			_ = f.Close()
			return nil, err
		}

		if err := Exclusive(f.Fd()); err == nil {
			return &Lock{f: f}, nil
		}

		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to acquire lock %s: %w", path, shipyarderrors.ErrLockTimeout)
		}

		time.Sleep(interval)
	}
}

// Release unlocks and closes the lock file. The file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}

	err := Unlock(l.f.Fd())
	closeErr := l.f.Close()
	l.f = nil

	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return closeErr
}
