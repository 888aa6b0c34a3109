package gitmeta_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/gitmeta"
)

var author = &object.Signature{
	Name:  "Release Bot",
	Email: "release@example.com",
	When:  time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
}

// initRepo creates a repository in a temp dir with one commit per message.
func initRepo(t *testing.T, messages ...string) (string, *git.Repository, []plumbing.Hash) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	hashes := make([]plumbing.Hash, 0, len(messages))
	for i, msg := range messages {
		name := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(name, []byte(msg+string(rune('a'+i))), 0o600))
		_, err = wt.Add("file.txt")
		require.NoError(t, err)
		hash, err := wt.Commit(msg, &git.CommitOptions{Author: author})
		require.NoError(t, err)
		hashes = append(hashes, hash)
	}
	return dir, repo, hashes
}

func TestDiscover_HeadWithoutTag(t *testing.T) {
	dir, _, hashes := initRepo(t, "fix reprojection [p2g]")

	meta, err := gitmeta.Discover(dir)
	require.NoError(t, err)

	assert.Equal(t, hashes[0].String(), meta.Commit)
	assert.Equal(t, "fix reprojection [p2g]", meta.CommitMessage)
	assert.Equal(t, "Release Bot <release@example.com>", meta.Author)
	assert.Empty(t, meta.Tag)
	assert.Empty(t, meta.Tags)
}

func TestDiscover_AnnotatedAndLightweightTags(t *testing.T) {
	dir, repo, hashes := initRepo(t, "first", "second")

	_, err := repo.CreateTag("p2g-v2.3.0", hashes[0], &git.CreateTagOptions{Tagger: author, Message: "old"})
	require.NoError(t, err)
	_, err = repo.CreateTag("p2g-v2.4.0", hashes[1], &git.CreateTagOptions{Tagger: author, Message: "release"})
	require.NoError(t, err)
	_, err = repo.CreateTag("g2g-v1.1.0", hashes[1], nil)
	require.NoError(t, err)

	meta, err := gitmeta.Discover(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"g2g-v1.1.0", "p2g-v2.4.0"}, meta.Tags)
	assert.Equal(t, "g2g-v1.1.0", meta.Tag)
	assert.Equal(t, "second", meta.CommitMessage)
}

func TestDiscover_FromSubdirectory(t *testing.T) {
	dir, _, _ := initRepo(t, "nested")
	sub := filepath.Join(dir, "doc", "source")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	meta, err := gitmeta.Discover(sub)
	require.NoError(t, err)
	assert.Equal(t, "nested", meta.CommitMessage)
}

func TestDiscover_NotARepository(t *testing.T) {
	_, err := gitmeta.Discover(t.TempDir())
	require.ErrorIs(t, err, errors.ErrNotGitRepo)
}

func TestDiscover_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = gitmeta.Discover(dir)
	require.ErrorIs(t, err, errors.ErrNotGitRepo)
}
