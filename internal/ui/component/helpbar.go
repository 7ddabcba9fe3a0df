package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/dlmm-lp/internal/ui/style"
)

const helpSeparator = " • "

// HelpBar lists the bindings of the current screen, wrapping to its width.
// Disabled bindings and bindings without a description are left out.
type HelpBar struct {
	bindings []key.Binding
	width    int

	keyStyle  lipgloss.Style
	descStyle lipgloss.Style
	boxStyle  lipgloss.Style
}

func NewHelpBar() *HelpBar {
	palette := style.DefaultPalette()
	return &HelpBar{
		width:     80,
		keyStyle:  lipgloss.NewStyle().Foreground(palette.Primary).Bold(true),
		descStyle: lipgloss.NewStyle().Foreground(palette.TextMuted),
		boxStyle:  lipgloss.NewStyle().Padding(0, 1).Margin(1, 0, 0, 0),
	}
}

func (h *HelpBar) SetKeyBindings(bindings []key.Binding) *HelpBar {
	h.bindings = bindings
	return h
}

func (h *HelpBar) SetWidth(width int) *HelpBar {
	h.width = width
	return h
}

func (h *HelpBar) View() string {
	items := h.items()
	if len(items) == 0 {
		return ""
	}
	// padding takes two columns on each side
	content := wrapItems(items, h.width-4, h.descStyle.Render(helpSeparator))
	return h.boxStyle.Width(h.width).Render(content)
}

func (h *HelpBar) items() []string {
	items := make([]string, 0, len(h.bindings))
	for _, b := range h.bindings {
		help := b.Help()
		if !b.Enabled() || help.Desc == "" || len(b.Keys()) == 0 {
			continue
		}
		label := help.Key
		if label == "" {
			label = b.Keys()[0]
		}
		items = append(items, h.keyStyle.Render(label)+" "+h.descStyle.Render(help.Desc))
	}
	return items
}

// wrapItems joins items with sep, starting a new line before an item that
// would cross maxWidth. An item wider than maxWidth gets a line of its own.
func wrapItems(items []string, maxWidth int, sep string) string {
	var (
		lines []string
		line  []string
		width int
	)
	sepWidth := lipgloss.Width(sep)
	for _, item := range items {
		w := lipgloss.Width(item)
		if len(line) > 0 && width+sepWidth+w > maxWidth {
			lines = append(lines, strings.Join(line, sep))
			line, width = nil, 0
		}
		if len(line) > 0 {
			width += sepWidth
		}
		line = append(line, item)
		width += w
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, sep))
	}
	return strings.Join(lines, "\n")
}
