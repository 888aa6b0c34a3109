package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_AlignsAndTruncates(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []TableColumn{
		{Name: "CODE", Width: 5},
		{Name: "SIZE", Width: 6, Align: AlignRight},
		{Name: "NOTE", Width: 6},
	})

	table.WriteHeader()
	table.WriteRow("p2g", "12", "a very long note")

	lines := strings.Split(strings.TrimRight(stripANSI(buf.String()), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "CODE    SIZE NOTE", lines[0])
	assert.Equal(t, "p2g       12 a ver…", lines[1])
}

func TestTable_StyledRowKeepsColumns(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []TableColumn{{Name: "A", Width: 4}, {Name: "B", Width: 3}})

	table.WriteStyledRow([]string{"ok", "x"}, map[int]lipgloss.Style{0: lipgloss.NewStyle().Bold(true)})

	assert.Equal(t, "ok   x\n", stripANSI(buf.String()))
}

// stripANSI removes SGR sequences lipgloss may emit.
func stripANSI(s string) string {
	var b strings.Builder
	skip := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			skip = true
		case skip && r == 'm':
			skip = false
		case !skip:
			b.WriteRune(r)
		}
	}
	return b.String()
}
