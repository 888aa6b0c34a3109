package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Target(t *testing.T) {
	cfg := DefaultConfig()

	target, ok := cfg.Target("g2g")
	require.True(t, ok)
	assert.Equal(t, "geo2grid", target.Product)

	_, ok = cfg.Target("x2g")
	assert.False(t, ok)
}

func TestConfig_RedactedMasksCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Publish.AccessKey = "AKIAEXAMPLE"
	cfg.Publish.SecretKey = "hunter2"

	red := cfg.Redacted()

	assert.Equal(t, secretMask, red.Publish.AccessKey)
	assert.Equal(t, secretMask, red.Publish.SecretKey)
	assert.Equal(t, "hunter2", cfg.Publish.SecretKey, "original must not be modified")

	red.Targets[0].Code = "changed"
	assert.NotEqual(t, "changed", cfg.Targets[0].Code, "targets must be copied")
}

func TestConfig_RedactedLeavesEmptyCredentialsEmpty(t *testing.T) {
	red := DefaultConfig().Redacted()
	assert.Empty(t, red.Publish.AccessKey)
	assert.Empty(t, red.Publish.SecretKey)
}

func TestConfig_ResolvePaths(t *testing.T) {
	workDir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "status.txt")

	cfg := DefaultConfig()
	cfg.WorkDir = workDir
	cfg.StatusFile = abs

	require.NoError(t, cfg.ResolvePaths())

	assert.Equal(t, filepath.Join(workDir, "build"), cfg.OutputDir)
	assert.Equal(t, abs, cfg.StatusFile, "absolute paths are left alone")
	assert.Equal(t, filepath.Join(workDir, "integration_tests"), cfg.Test.Dir)
	assert.Equal(t, filepath.Join(workDir, "public"), cfg.Publish.Root)
	for _, target := range cfg.Targets {
		assert.True(t, filepath.IsAbs(target.DocsDir))
	}
}

func TestConfig_ResolvePathsKeepsObjectRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir = t.TempDir()
	cfg.Publish.Backend = PublishBackendS3
	cfg.Publish.Root = "releases"

	require.NoError(t, cfg.ResolvePaths())
	assert.Equal(t, "releases", cfg.Publish.Root)
}
