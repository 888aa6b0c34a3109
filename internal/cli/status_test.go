package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/shipyard/internal/errors"
)

const statusFixture = `run_id=run-1
release_suffix=v2.4.0
p2g_package=SUCCESSFUL
p2g_tests=FAILED
p2g_documentation=SUCCESSFUL
p2g_package_published=TRUE
run_status=FAILED
`

func writeStatusFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "status.txt")
	require.NoError(t, os.WriteFile(path, []byte(statusFixture), 0o600))
	return path
}

func TestStatusCommand_Text(t *testing.T) {
	isolateHome(t)

	out, err := executeRoot(t, "status", "--file", writeStatusFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "TARGET")
	assert.Contains(t, out, "✗ FAILED")
	assert.Contains(t, out, "✓ TRUE")
}

func TestStatusCommand_JSON(t *testing.T) {
	isolateHome(t)

	out, err := executeRoot(t, "status", "--file", writeStatusFile(t), "-o", "json")
	require.NoError(t, err)

	var view struct {
		Targets []map[string]string `json:"targets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Targets, 1)
	assert.Equal(t, "p2g", view.Targets[0]["code"])
	assert.Equal(t, "FAILED", view.Targets[0]["tests"])
}

func TestStatusCommand_YAML(t *testing.T) {
	isolateHome(t)

	out, err := executeRoot(t, "status", "--file", writeStatusFile(t), "-o", "yaml")
	require.NoError(t, err)

	var view struct {
		Run []struct {
			Key   string `yaml:"key"`
			Value string `yaml:"value"`
		} `yaml:"run"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	require.NotEmpty(t, view.Run)
	assert.Equal(t, "run_id", view.Run[0].Key)
}

func TestStatusCommand_InvalidFormat(t *testing.T) {
	isolateHome(t)

	_, err := executeRoot(t, "status", "--file", writeStatusFile(t), "-o", "xml")
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestStatusCommand_MissingFile(t *testing.T) {
	isolateHome(t)

	_, err := executeRoot(t, "status", "--file", filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, errors.ErrStatusFileNotFound)
}

func TestStatusCommand_UsesConfiguredStatusFile(t *testing.T) {
	isolateHome(t)
	work := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(work, "build"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(work, "build", "status.txt"), []byte(statusFixture), 0o600))

	out, err := executeRoot(t, "status", "--work-dir", work)
	require.NoError(t, err)
	assert.Contains(t, out, "v2.4.0")
}
