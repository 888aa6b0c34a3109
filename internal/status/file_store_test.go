package status_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shipyarderrors "github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/flock"
	"github.com/mrz1836/shipyard/internal/status"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestFileStore_SetIsWriteThrough(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "build", "status.txt")

	s, err := status.OpenFileStore(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	require.NoError(t, s.Set(ctx, "p2g_tests", "FAILED"))

	assert.Equal(t, []string{"p2g_tests=FAILED"}, readLines(t, path))
	assert.NoFileExists(t, path+".tmp")
}

func TestFileStore_LastWriteWinsLeavesOneLine(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "status.txt")

	s, err := status.OpenFileStore(ctx, path)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "p2g_tests", "FAILED"))
	require.NoError(t, s.Set(ctx, "g2g_tests", "FAILED"))
	require.NoError(t, s.Set(ctx, "p2g_tests", "SUCCESSFUL"))

	got, ok := s.Get("p2g_tests")
	require.True(t, ok)
	assert.Equal(t, "SUCCESSFUL", got)
	assert.Equal(t, []string{"g2g_tests=FAILED", "p2g_tests=SUCCESSFUL"}, readLines(t, path))
}

func TestFileStore_ReopenRemovesExistingLineBeforeAppend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "status.txt")
	require.NoError(t, os.WriteFile(path, []byte("start_time=t0\np2g_tests=FAILED\ng2g_tests=FAILED\n"), 0o600))

	s, err := status.OpenFileStore(ctx, path)
	require.NoError(t, err)

	v, ok := s.Get("p2g_tests")
	require.True(t, ok)
	assert.Equal(t, "FAILED", v)

	require.NoError(t, s.Set(ctx, "p2g_tests", "SKIPPED"))

	assert.Equal(t, []string{"start_time=t0", "g2g_tests=FAILED", "p2g_tests=SKIPPED"}, readLines(t, path))
}

func TestCreateFileStore_DiscardsPreviousRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "status.txt")
	previous := "finish_time=2020-01-01T00:00:00Z\nold_target_package_published=TRUE\n"
	require.NoError(t, os.WriteFile(path, []byte(previous), 0o600))

	s, err := status.CreateFileStore(ctx, path)
	require.NoError(t, err)

	_, ok := s.Get("finish_time")
	assert.False(t, ok)
	assert.Empty(t, s.Entries())

	data, err := os.ReadFile(path) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	assert.Empty(t, data)

	require.NoError(t, s.Set(ctx, "run_status", "FAILED"))
	assert.Equal(t, []string{"run_status=FAILED"}, readLines(t, path))
}

func TestCreateFileStore_CreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build", "status.txt")

	_, err := status.CreateFileStore(context.Background(), path)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestCreateFileStore_RequiresPath(t *testing.T) {
	_, err := status.CreateFileStore(context.Background(), "")
	require.ErrorIs(t, err, shipyarderrors.ErrEmptyValue)
}

func TestFileStore_MultilineValueRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "status.txt")

	s, err := status.OpenFileStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "commit_message", "Release\n\n[g2g-skip-tests]"))
	assert.Len(t, readLines(t, path), 1)

	reopened, err := status.OpenFileStore(ctx, path)
	require.NoError(t, err)
	v, _ := reopened.Get("commit_message")
	assert.Equal(t, "Release\n\n[g2g-skip-tests]", v)
}

func TestFileStore_OpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.txt")
	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0o600))

	_, err := status.OpenFileStore(context.Background(), path)
	require.ErrorIs(t, err, shipyarderrors.ErrStatusFileCorrupted)
}

func TestFileStore_OpenRequiresPath(t *testing.T) {
	_, err := status.OpenFileStore(context.Background(), "")
	require.ErrorIs(t, err, shipyarderrors.ErrEmptyValue)
}

func TestFileStore_SetFailsWhileLockHeld(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "status.txt")

	held, err := flock.Acquire(ctx, path+".lock", time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = held.Release() }()

	s, err := status.OpenFileStore(ctx, path, status.WithLockTimeout(30*time.Millisecond))
	require.NoError(t, err)

	err = s.Set(ctx, "k", "v")
	require.ErrorIs(t, err, shipyarderrors.ErrLockTimeout)
}

func TestReadFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "status.txt")

	_, err := status.ReadFile(path)
	require.ErrorIs(t, err, shipyarderrors.ErrStatusFileNotFound)

	s, err := status.OpenFileStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "finish_time", "2024-06-15T10:30:00Z"))

	entries, err := status.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []status.Entry{{Key: "finish_time", Value: "2024-06-15T10:30:00Z"}}, entries)
}
