package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfigPath(t *testing.T) {
	home := isolateHome(t)

	path, err := GlobalConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".shipyard", "config.yaml"), path)
}

func TestProjectConfigPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/src/polar2grid", ".shipyard", "config.yaml"),
		ProjectConfigPath("/src/polar2grid"))
}
