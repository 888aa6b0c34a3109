package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/shipyard/internal/errors"
)

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, FormatJSON))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, FormatText))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, ""))
}

func TestTTYOutput_Messages(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Success("published p2g")
	out.Warning("tests skipped")
	out.Error(errors.ErrRunFailed)
	out.Info("run 42")

	got := buf.String()
	assert.Contains(t, got, "✓ published p2g")
	assert.Contains(t, got, "⚠ tests skipped")
	assert.Contains(t, got, "✗ "+errors.ErrRunFailed.Error())
	assert.Contains(t, got, "run 42")
}

func TestTTYOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTTYOutput(&buf).JSON(map[string]string{"suffix": "2.4.0"}))
	assert.JSONEq(t, `{"suffix":"2.4.0"}`, buf.String())
}

func TestJSONOutput_Messages(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("done")
	out.Warning("careful")
	out.Info("fyi")

	dec := json.NewDecoder(&buf)
	for _, want := range []jsonMessage{{"success", "done"}, {"warning", "careful"}, {"info", "fyi"}} {
		var got jsonMessage
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, want, got)
	}
}

func TestJSONOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Error(fmt.Errorf("wrapped: %w", errors.ErrInvalidOutputFormat))

	var got jsonError
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "error", got.Type)
	assert.NotEmpty(t, got.Message)
}
