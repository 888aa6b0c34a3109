package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a column in a table.
type TableColumn struct {
	Name  string
	Width int
	Align Alignment
}

// Alignment defines text alignment in a column.
type Alignment int

// Alignment constants.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table provides styled table rendering.
type Table struct {
	w       io.Writer
	styles  *TableStyles
	columns []TableColumn
}

// NewTable creates a new table with the given columns.
func NewTable(w io.Writer, columns []TableColumn) *Table {
	return &Table{
		w:       w,
		styles:  NewTableStyles(),
		columns: columns,
	}
}

// WriteHeader writes the table header row.
func (t *Table) WriteHeader() {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		cells[i] = pad(col, col.Name, len(col.Name))
	}
	_, _ = fmt.Fprintln(t.w, t.styles.Header.Render(strings.TrimRight(strings.Join(cells, " "), " ")))
}

// WriteRow writes a data row. Values longer than their column are truncated.
func (t *Table) WriteRow(values ...string) {
	t.writeCells(values, nil)
}

// WriteStyledRow writes a data row and renders the cells that have an entry
// in styles with that style. Padding is computed on the plain text so ANSI
// codes never shift the columns.
func (t *Table) WriteStyledRow(values []string, styles map[int]lipgloss.Style) {
	t.writeCells(values, styles)
}

func (t *Table) writeCells(values []string, styles map[int]lipgloss.Style) {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		if col.Width > 1 && lipgloss.Width(value) > col.Width {
			runes := []rune(value)
			value = string(runes[:col.Width-1]) + "…"
		}
		visible := lipgloss.Width(value)
		if style, ok := styles[i]; ok {
			value = style.Render(value)
		}
		cells[i] = pad(col, value, visible)
	}
	_, _ = fmt.Fprintln(t.w, strings.TrimRight(strings.Join(cells, " "), " "))
}

// pad aligns value within the column given its visible width.
func pad(col TableColumn, value string, visible int) string {
	gap := col.Width - visible
	if gap <= 0 {
		return value
	}
	if col.Align == AlignRight {
		return strings.Repeat(" ", gap) + value
	}
	return value + strings.Repeat(" ", gap)
}
