package publish_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/shipyard/internal/config"
	"github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/publish"
	"github.com/mrz1836/shipyard/internal/testutil"
)

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func makePackage(t *testing.T) publish.Package {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "polar2grid-v2.3.0")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs", "html"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "polar2grid-swbundle-v2.3.0.tar.gz"), []byte("tarball"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "html", "index.html"), []byte("<html>"), 0o600))
	return publish.Package{Dir: dir, Product: "polar2grid", Suffix: "v2.3.0"}
}

func TestDirPublisher_ReplacesAndBroadens(t *testing.T) {
	pkg := makePackage(t)
	root := t.TempDir()
	stale := filepath.Join(root, "polar2grid-v2.3.0", "old.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o700))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))

	res, err := publish.NewDirPublisher(root).Publish(testContext(), pkg)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "polar2grid-v2.3.0"), res.Location)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, int64(len("tarball")+len("<html>")), res.Bytes)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(res.Location, "docs", "html", "index.html"))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(res.Location, "docs"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

func TestDirPublisher_MissingPackage(t *testing.T) {
	_, err := publish.NewDirPublisher(t.TempDir()).Publish(testContext(), publish.Package{
		Dir: filepath.Join(t.TempDir(), "missing"),
	})
	require.ErrorIs(t, err, errors.ErrPublishFailed)
}

// fakeStore is an in-memory ObjectStore.
type fakeStore struct {
	mu       sync.Mutex
	objects  map[string]string
	policy   string
	buckets  map[string]bool
	putErr   error
	setCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]string{}, buckets: map[string]bool{}}
}

func (f *fakeStore) EnsureBucket(_ context.Context, bucket, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[bucket] = true
	return nil
}

func (f *fakeStore) ListKeys(_ context.Context, _, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (f *fakeStore) RemoveKeys(_ context.Context, _ string, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.objects, k)
	}
	return nil
}

func (f *fakeStore) PutFile(_ context.Context, _, key, path, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := os.ReadFile(path) //#nosec G304 -- test file
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = contentType + ":" + string(data)
	return nil
}

func (f *fakeStore) BucketPolicy(_ context.Context, _ string) (string, error) {
	return f.policy, nil
}

func (f *fakeStore) SetBucketPolicy(_ context.Context, _, policy string) error {
	f.policy = policy
	f.setCalls++
	return nil
}

func (f *fakeStore) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func s3Config() config.PublishConfig {
	return config.PublishConfig{
		Backend:     config.PublishBackendS3,
		Endpoint:    "s3.example.org",
		Bucket:      "releases",
		PublicRead:  true,
		Concurrency: 2,
	}
}

func TestObjectPublisher_ReplacesPrefix(t *testing.T) {
	store := newFakeStore()
	store.objects["polar2grid/v2.3.0/stale.txt"] = "old"
	store.objects["polar2grid/v2.2.0/keep.txt"] = "other release"
	pkg := makePackage(t)

	res, err := publish.NewObjectPublisher(store, s3Config()).Publish(testContext(), pkg)

	require.NoError(t, err)
	assert.Equal(t, "s3://releases/polar2grid/v2.3.0/", res.Location)
	assert.Equal(t, 2, res.Files)
	assert.True(t, store.buckets["releases"])
	assert.Equal(t, []string{
		"polar2grid/v2.2.0/keep.txt",
		"polar2grid/v2.3.0/docs/html/index.html",
		"polar2grid/v2.3.0/polar2grid-swbundle-v2.3.0.tar.gz",
	}, store.keys())
	assert.Contains(t, store.objects["polar2grid/v2.3.0/docs/html/index.html"], "text/html")
}

func TestObjectPublisher_GrantsPublicReadOnce(t *testing.T) {
	store := newFakeStore()
	pub := publish.NewObjectPublisher(store, s3Config())

	_, err := pub.Publish(testContext(), makePackage(t))
	require.NoError(t, err)
	_, err = pub.Publish(testContext(), makePackage(t))
	require.NoError(t, err)

	assert.Equal(t, 1, store.setCalls, "an existing grant must not be duplicated")
	assert.Contains(t, store.policy, "arn:aws:s3:::releases/polar2grid/*")
}

func TestObjectPublisher_NoPolicyWhenPrivate(t *testing.T) {
	store := newFakeStore()
	cfg := s3Config()
	cfg.PublicRead = false

	_, err := publish.NewObjectPublisher(store, cfg).Publish(testContext(), makePackage(t))
	require.NoError(t, err)
	assert.Zero(t, store.setCalls)
}

func TestObjectPublisher_UploadFailure(t *testing.T) {
	store := newFakeStore()
	store.putErr = testutil.ErrMockUpload

	_, err := publish.NewObjectPublisher(store, s3Config()).Publish(testContext(), makePackage(t))

	require.ErrorIs(t, err, errors.ErrPublishFailed)
	require.ErrorIs(t, err, testutil.ErrMockUpload)
}

func TestPolicy_PreservesExistingStatements(t *testing.T) {
	store := newFakeStore()
	store.policy = `{"Version":"2012-10-17","Statement":[{"Sid":"Ops","Effect":"Allow","Principal":{"AWS":["arn:aws:iam::1:root"]},"Action":"s3:*","Resource":"arn:aws:s3:::releases/*"}]}`

	_, err := publish.NewObjectPublisher(store, s3Config()).Publish(testContext(), makePackage(t))
	require.NoError(t, err)

	var doc struct {
		Statement []map[string]any `json:"Statement"`
	}
	require.NoError(t, json.Unmarshal([]byte(store.policy), &doc))
	require.Len(t, doc.Statement, 2)
	assert.Equal(t, "Ops", doc.Statement[0]["Sid"])
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "geo2grid/20261018-120000/", publish.KeyPrefix(publish.Package{Product: "geo2grid", Suffix: "20261018-120000"}))
}

func TestNew_SelectsBackend(t *testing.T) {
	pub, err := publish.New(config.PublishConfig{Backend: config.PublishBackendDir, Root: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &publish.DirPublisher{}, pub)

	pub, err = publish.New(s3Config())
	require.NoError(t, err)
	assert.IsType(t, &publish.ObjectPublisher{}, pub)

	_, err = publish.New(config.PublishConfig{Backend: "ftp"})
	require.ErrorIs(t, err, errors.ErrInvalidPublishBackend)
}
