package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/shipyard/internal/errors"
)

func TestRootCmd_Help(t *testing.T) {
	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, want := range []string{"shipyard", "run", "resolve", "status", "report", "config", "--output", "--verbose", "--quiet", "--config"} {
		assert.Contains(t, output, want)
	}
}

func TestRootCmd_Version(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want []string
	}{
		{"full", BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2026-10-18"}, []string{"1.0.0", "abc1234", "2026-10-18"}},
		{"defaults", BuildInfo{}, []string{"dev", "none", "unknown"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd(&GlobalFlags{}, tc.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{"--version"})

			require.NoError(t, cmd.Execute())
			for _, want := range tc.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	isolateHome(t)

	_, err := executeRoot(t, "resolve", "-o", "xml")
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_VerboseAndQuietAreExclusive(t *testing.T) {
	isolateHome(t)

	_, err := executeRoot(t, "resolve", "-v", "-q")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
