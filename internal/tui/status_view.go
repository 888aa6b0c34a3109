package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/shipyard/internal/clock"
	"github.com/mrz1836/shipyard/internal/constants"
	"github.com/mrz1836/shipyard/internal/status"
)

// TargetStatus is one target's row in the status table.
type TargetStatus struct {
	Code          string `json:"code" yaml:"code"`
	Package       string `json:"package" yaml:"package"`
	Tests         string `json:"tests" yaml:"tests"`
	Documentation string `json:"documentation" yaml:"documentation"`
	Published     string `json:"published" yaml:"published"`
}

// StatusView is a status record split into run fields and per-target rows.
type StatusView struct {
	Run     []status.Entry `json:"run" yaml:"run"`
	Targets []TargetStatus `json:"targets" yaml:"targets"`
}

// NewStatusView groups entries by target. A target is any code with a
// "<code>_package_published" key; targets keep their first-seen order.
func NewStatusView(entries []status.Entry) *StatusView {
	values := make(map[string]string, len(entries))
	for _, e := range entries {
		values[e.Key] = e.Value
	}

	targetKeys := make(map[string]bool)
	view := &StatusView{}
	for _, e := range entries {
		code, ok := strings.CutSuffix(e.Key, constants.KeySuffixPublished)
		if !ok || code == "" {
			continue
		}
		view.Targets = append(view.Targets, TargetStatus{
			Code:          code,
			Package:       values[status.PackageKey(code)],
			Tests:         values[status.TestsKey(code)],
			Documentation: values[status.DocsKey(code)],
			Published:     e.Value,
		})
		for _, key := range []string{status.PackageKey(code), status.TestsKey(code), status.DocsKey(code), e.Key} {
			targetKeys[key] = true
		}
	}

	for _, e := range entries {
		if !targetKeys[e.Key] {
			view.Run = append(view.Run, e)
		}
	}
	return view
}

// Value returns the run field for key.
func (v *StatusView) Value(key string) string {
	for _, e := range v.Run {
		if e.Key == key {
			return e.Value
		}
	}
	return ""
}

// RenderStatus writes the human-readable status report: run fields first,
// then one table row per target with colored stage values.
func RenderStatus(w io.Writer, view *StatusView, clk clock.Clock) {
	if clk == nil {
		clk = DefaultClock
	}
	styles := NewOutputStyles()

	width := 0
	for _, e := range view.Run {
		width = max(width, len(e.Key))
	}
	for _, e := range view.Run {
		value := e.Value
		switch e.Key {
		case constants.KeyRunStatus:
			value = lipgloss.NewStyle().Foreground(StageStatusColor(value)).Render(FormatStageStatus(value))
		case constants.KeyStartTime, constants.KeyFinishTime:
			if ts, err := time.Parse(time.RFC3339, value); err == nil {
				value += " " + styles.Dim.Render("("+RelativeTimeWith(ts, clk)+")")
			}
		}
		_, _ = fmt.Fprintf(w, "%-*s  %s\n", width, e.Key, value)
	}

	if len(view.Targets) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)

	table := NewTable(w, []TableColumn{
		{Name: "TARGET", Width: 8},
		{Name: strings.ToUpper(StageLabel(constants.StageBundle)), Width: 14},
		{Name: strings.ToUpper(StageLabel(constants.StageTests)), Width: 14},
		{Name: strings.ToUpper(StageLabel(constants.StageDocs)), Width: 14},
		{Name: "PUBLISHED", Width: 9},
	})
	table.WriteHeader()
	for _, t := range view.Targets {
		values := []string{
			t.Code,
			FormatStageStatus(t.Package),
			FormatStageStatus(t.Tests),
			FormatStageStatus(t.Documentation),
			FormatStageStatus(t.Published),
		}
		cellStyles := map[int]lipgloss.Style{
			1: lipgloss.NewStyle().Foreground(StageStatusColor(t.Package)),
			2: lipgloss.NewStyle().Foreground(StageStatusColor(t.Tests)),
			3: lipgloss.NewStyle().Foreground(StageStatusColor(t.Documentation)),
			4: lipgloss.NewStyle().Foreground(StageStatusColor(t.Published)),
		}
		table.WriteStyledRow(values, cellStyles)
	}
}
