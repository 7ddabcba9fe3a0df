package style

import (
	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette()

// Screen text
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Margin(0, 0, 1, 0)

	MutedStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted)
)

// Status lines
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true)
)

// Position rows
var (
	InRangeStyle = lipgloss.NewStyle().
			Foreground(palette.InRange).
			Bold(true)

	OutOfRangeStyle = lipgloss.NewStyle().
			Foreground(palette.OutOfRange).
			Bold(true)
)

// RangeStyle colors a position row by whether the active bin is inside it.
func RangeStyle(inRange bool) lipgloss.Style {
	if inRange {
		return InRangeStyle
	}
	return OutOfRangeStyle
}
