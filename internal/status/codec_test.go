package status_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shipyarderrors "github.com/mrz1836/shipyard/internal/errors"
	"github.com/mrz1836/shipyard/internal/status"
)

func TestEncode_OneLinePerEntry(t *testing.T) {
	data := status.Encode([]status.Entry{
		{Key: "p2g_tests", Value: "SUCCESSFUL"},
		{Key: "commit_message", Value: "Fix reader\n\n[p2g]"},
		{Key: "path", Value: `C:\dist`},
	})

	assert.Equal(t,
		"p2g_tests=SUCCESSFUL\n"+
			"commit_message=Fix reader\\n\\n[p2g]\n"+
			"path=C:\\\\dist\n",
		string(data))
}

func TestDecode_RestoresEscapedValues(t *testing.T) {
	entries := []status.Entry{
		{Key: "commit_message", Value: "line one\r\nline two"},
		{Key: "path", Value: `a\b\nc`},
		{Key: "empty", Value: ""},
		{Key: "equation", Value: "x=y=z"},
	}

	got, err := status.Decode(strings.NewReader(string(status.Encode(entries))))
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestDecode_DuplicateKeysCollapseToLast(t *testing.T) {
	got, err := status.Decode(strings.NewReader("a=1\nb=2\n\na=3\n"))
	require.NoError(t, err)
	assert.Equal(t, []status.Entry{{Key: "b", Value: "2"}, {Key: "a", Value: "3"}}, got)
}

func TestDecode_UnknownEscapeKeptVerbatim(t *testing.T) {
	got, err := status.Decode(strings.NewReader(`k=a\tb` + "\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, `a\tb`, got[0].Value)
}

func TestDecode_RejectsLineWithoutAssignment(t *testing.T) {
	_, err := status.Decode(strings.NewReader("a=1\nnot an assignment\n"))
	require.ErrorIs(t, err, shipyarderrors.ErrStatusFileCorrupted)
	assert.Contains(t, err.Error(), "line 2")
}
