// Package tui renders shipyard's terminal output.
//
// Colors use lipgloss AdaptiveColor so they read on light and dark terminals.
// Status displays keep icon, color and text together so they stay readable
// when color is off.
//
// Call CheckNoColor() before printing styled text. It honors NO_COLOR and
// TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/shipyard/internal/constants"
)

//nolint:gochecknoglobals // package-level styling API
var (
	// ColorPrimary is blue, used for headings and informational text.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for SUCCESSFUL stages and published packages.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for SKIPPED stages.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for FAILED stages.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies faint formatting.
	StyleDim = lipgloss.NewStyle().Faint(true)

	titleCaser = cases.Title(language.English)
)

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Dim    lipgloss.Style
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Cell: lipgloss.NewStyle(),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
	}
}

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// CheckNoColor switches lipgloss to the ASCII profile when color is disabled.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is present (any value, including
// empty) or TERM=dumb. See https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// StageStatusColor returns the color for a recorded stage value. Unknown
// values are muted.
func StageStatusColor(value string) lipgloss.AdaptiveColor {
	switch value {
	case constants.StatusSuccessful.String(), constants.PublishedTrue:
		return ColorSuccess
	case constants.StatusFailed.String():
		return ColorError
	case constants.StatusSkipped.String():
		return ColorWarning
	default:
		return ColorMuted
	}
}

// StageStatusIcon returns the icon for a recorded stage value.
func StageStatusIcon(value string) string {
	switch value {
	case constants.StatusSuccessful.String(), constants.PublishedTrue:
		return "✓"
	case constants.StatusFailed.String():
		return "✗"
	case constants.StatusSkipped.String():
		return "○"
	case constants.PublishedFalse:
		return "·"
	default:
		return "?"
	}
}

// FormatStageStatus returns icon and text, e.g. "✓ SUCCESSFUL".
func FormatStageStatus(value string) string {
	return StageStatusIcon(value) + " " + value
}

// StageLabel returns the display heading for a pipeline stage.
func StageLabel(stage constants.Stage) string {
	return titleCaser.String(stage.String())
}
