package style

import (
	"github.com/charmbracelet/lipgloss"
)

// HeaderStyles provides styling for the status header
type HeaderStyles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Wallet    lipgloss.Style
	Good      lipgloss.Style
	Bad       lipgloss.Style
	Neutral   lipgloss.Style
}

// NewHeaderStyles creates header styles with the given palette
func NewHeaderStyles(palette Palette) HeaderStyles {
	return HeaderStyles{
		Container: lipgloss.NewStyle().
			Foreground(palette.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 2).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		Wallet: lipgloss.NewStyle().
			Foreground(palette.TextSecondary),

		Good: lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true),

		Bad: lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true),

		Neutral: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
}

// ChartStyles colors the loss chart.
type ChartStyles struct {
	Title   lipgloss.Style
	Bar     lipgloss.Style
	Overlay lipgloss.Style
	Axis    lipgloss.Style
	Legend  lipgloss.Style
}

// NewChartStyles creates loss chart styles
func NewChartStyles(palette Palette) ChartStyles {
	return ChartStyles{
		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		Bar: lipgloss.NewStyle().
			Foreground(palette.Curve),

		Overlay: lipgloss.NewStyle().
			Foreground(palette.Overlay).
			Background(palette.BackgroundAlt),

		Axis: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		Legend: lipgloss.NewStyle().
			Foreground(palette.TextSecondary).
			Italic(true),
	}
}

// LogStyles provides styling for the log viewer
type LogStyles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Entry     lipgloss.Style
	Timestamp lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Debug     lipgloss.Style
}

// NewLogStyles creates log viewer styles
func NewLogStyles(palette Palette) LogStyles {
	return LogStyles{
		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Info).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(palette.Info).
			Bold(true),

		Entry: lipgloss.NewStyle().
			Foreground(palette.Text),

		Timestamp: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		Error: lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(palette.Info),

		Debug: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
}
