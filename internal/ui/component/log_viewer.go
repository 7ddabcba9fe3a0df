package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/style"
)

// recentLogLimit bounds how many buffered entries the viewer reads.
const recentLogLimit = 200

// LogFilter defines what log levels to show
type LogFilter struct {
	ShowError   bool
	ShowWarning bool
	ShowInfo    bool
	ShowDebug   bool
}

// LogViewer renders the tail of a LogBuffer in a scrollable viewport.
type LogViewer struct {
	buffer   *logger.LogBuffer
	viewport viewport.Model
	filter   LogFilter
	style    style.LogStyles
	width    int
	height   int
	follow   bool
}

// NewLogViewer creates a viewer over buffer; buffer may be nil.
func NewLogViewer(buffer *logger.LogBuffer) *LogViewer {
	return &LogViewer{
		buffer: buffer,
		follow: true,
		filter: LogFilter{
			ShowError:   true,
			ShowWarning: true,
			ShowInfo:    true,
		},
		style:    style.NewLogStyles(style.DefaultPalette()),
		viewport: viewport.New(50, 4),
	}
}

// SetSize sets the component dimensions
func (lv *LogViewer) SetSize(width, height int) {
	lv.width = width
	lv.height = height
	lv.viewport.Width = max(width-4, 10)
	lv.viewport.Height = max(height-3, 2)
	lv.Refresh()
}

// ToggleDebug shows or hides debug entries.
func (lv *LogViewer) ToggleDebug() {
	lv.filter.ShowDebug = !lv.filter.ShowDebug
	lv.Refresh()
}

// Update scrolls the viewport. Scrolling up stops following new entries.
func (lv *LogViewer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	lv.viewport, cmd = lv.viewport.Update(msg)
	lv.follow = lv.viewport.AtBottom()
	return cmd
}

// Refresh reloads entries from the buffer.
func (lv *LogViewer) Refresh() {
	if lv.buffer == nil {
		lv.viewport.SetContent("No log buffer available")
		return
	}

	var lines []string
	for _, entry := range lv.buffer.GetRecentLogs(recentLogLimit) {
		if lv.shouldShowEntry(entry) {
			lines = append(lines, lv.formatLogEntry(entry))
		}
	}
	if len(lines) == 0 {
		lv.viewport.SetContent("No logs match current filter")
		return
	}

	lv.viewport.SetContent(strings.Join(lines, "\n"))
	if lv.follow {
		lv.viewport.GotoBottom()
	}
}

// View renders the log viewer
func (lv *LogViewer) View() string {
	title := lv.style.Title.Render("Logs  " + lv.FilterStatus())
	content := lipgloss.JoinVertical(lipgloss.Left, title, lv.viewport.View())
	return lv.style.Container.Render(content)
}

func (lv *LogViewer) shouldShowEntry(entry logger.LogEntry) bool {
	switch strings.ToLower(entry.Level) {
	case "error", "fatal", "panic", "dpanic":
		return lv.filter.ShowError
	case "warning", "warn":
		return lv.filter.ShowWarning
	case "debug":
		return lv.filter.ShowDebug
	default:
		return lv.filter.ShowInfo
	}
}

func (lv *LogViewer) formatLogEntry(entry logger.LogEntry) string {
	timestamp := lv.style.Timestamp.Render(entry.Timestamp.Format("15:04:05"))

	var message string
	switch strings.ToLower(entry.Level) {
	case "error", "fatal", "panic", "dpanic":
		message = lv.style.Error.Render(entry.Message)
	case "warning", "warn":
		message = lv.style.Warning.Render(entry.Message)
	case "info":
		message = lv.style.Info.Render(entry.Message)
	case "debug":
		message = lv.style.Debug.Render(entry.Message)
	default:
		message = lv.style.Entry.Render(entry.Message)
	}
	return fmt.Sprintf("%s %s", timestamp, message)
}

// FilterStatus describes which levels are shown.
func (lv *LogViewer) FilterStatus() string {
	if lv.filter.ShowDebug {
		return "(all levels)"
	}
	return "(debug hidden)"
}
