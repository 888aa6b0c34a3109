package status

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mrz1836/shipyard/internal/constants"
	shipyarderrors "github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/flock"
)

// Directory and file permission constants. The status file is world-readable
// because the notifier usually runs as a different user.
const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// FileStore implements Store on a key=value text file with write-through
// persistence. Every Set rewrites the file atomically (temp file, fsync,
// rename) while holding an exclusive lock on "<path>.lock".
type FileStore struct {
	mu          sync.Mutex
	path        string
	rec         *record
	lockTimeout time.Duration
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithLockTimeout overrides the maximum wait for the status file lock.
func WithLockTimeout(d time.Duration) FileStoreOption {
	return func(s *FileStore) {
		s.lockTimeout = d
	}
}

func newFileStore(ctx context.Context, path string, opts []FileStoreOption) (*FileStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("failed to open status file: path %w", shipyarderrors.ErrEmptyValue)
	}

	s := &FileStore{
		path:        path,
		rec:         newRecord(),
		lockTimeout: constants.StatusLockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateFileStore starts a new run record at path. Whatever a previous run
// left in the file is discarded and the empty record is persisted before
// returning, so readers never see an earlier run's keys mixed into this one.
func CreateFileStore(ctx context.Context, path string, opts ...FileStoreOption) (*FileStore, error) {
	s, err := newFileStore(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if err := s.Persist(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset status file '%s': %w", path, err)
	}
	return s, nil
}

// OpenFileStore opens the status file at path, loading any previously
// persisted record. A missing file yields an empty store; the file is created
// on the first Set or Persist.
func OpenFileStore(ctx context.Context, path string, opts ...FileStoreOption) (*FileStore, error) {
	s, err := newFileStore(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //#nosec G304 -- path comes from trusted configuration
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read status file '%s': %w", path, err)
	}

	rec, err := decodeRecord(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse status file '%s': %w", path, err)
	}
	s.rec = rec
	return s, nil
}

// Path returns the status file location.
func (s *FileStore) Path() string {
	return s.path
}

// Set upserts key and immediately persists the full record.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec.set(key, value)
	if err := s.persistLocked(ctx); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// Get returns the current value for key.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.get(key)
}

// Entries returns the record in persisted order.
func (s *FileStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.entries()
}

// Persist writes the full current record to disk.
func (s *FileStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *FileStore) persistLocked(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	lock, err := flock.Acquire(ctx, s.path+".lock", s.lockTimeout, constants.StatusLockRetryInterval)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	return atomicWrite(s.path, Encode(s.rec.entries()))
}

// ReadFile loads the entries of a persisted status file without opening it for writes.
func ReadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from trusted configuration or flag
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, shipyarderrors.ErrStatusFileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read status file '%s': %w", path, err)
	}
	return Decode(bytes.NewReader(data))
}

// atomicWrite writes data to a file atomically using write-then-rename.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G302,G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Sync before rename so a crash never exposes a truncated record.
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
