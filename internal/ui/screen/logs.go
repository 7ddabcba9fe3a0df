package screen

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/component"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/router"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
)

const logsRefreshInterval = time.Second

// LogsScreen tails the in-memory log buffer.
type LogsScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	seq    int

	header  *component.StatusHeader
	viewer  *component.LogViewer
	helpBar *component.HelpBar
}

// NewLogsScreen creates a new logs screen
func NewLogsScreen(services ui.ServiceProvider, view state.View) *LogsScreen {
	keyMap := ui.DefaultKeyMap()

	s := &LogsScreen{
		keyMap:  keyMap,
		header:  component.NewStatusHeader(services.GetConfig().Network),
		viewer:  component.NewLogViewer(services.GetLogBuffer()),
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteLogs)),
	}
	s.header.SetView(view)
	s.viewer.Refresh()
	return s
}

// Init starts the refresh timer
func (s *LogsScreen) Init() tea.Cmd {
	s.seq++
	return ui.Refresh(ui.RouteLogs, s.seq, logsRefreshInterval)
}

// Update handles screen updates
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.StateMsg:
		s.header.SetView(msg.View)

	case ui.RefreshMsg:
		if msg.Route != ui.RouteLogs || msg.Seq != s.seq {
			return s, nil
		}
		s.viewer.Refresh()
		return s, ui.Refresh(ui.RouteLogs, s.seq, logsRefreshInterval)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Debug):
			s.viewer.ToggleDebug()
		case key.Matches(msg, s.keyMap.Refresh):
			s.viewer.Refresh()
		default:
			return s, s.viewer.Update(msg)
		}

	case tea.MouseMsg:
		return s, s.viewer.Update(msg)
	}
	return s, nil
}

// View renders the logs screen
func (s *LogsScreen) View() string {
	var content strings.Builder
	content.WriteString(s.header.View())
	content.WriteString("\n")
	content.WriteString(s.viewer.View())
	content.WriteString("\n")
	content.WriteString(s.helpBar.View())
	return content.String()
}

// SetSize sets the screen dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.header.SetWidth(width)
	s.helpBar.SetWidth(width)
	s.viewer.SetSize(width, max(height-s.header.GetHeight()-3, 6))
}
