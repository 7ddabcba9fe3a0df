// Package app is the root bubbletea model: it owns the view state, applies
// actions and routes messages to the screen on top of the stack.
package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/router"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/screen"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
)

// Model represents the main TUI application model
type Model struct {
	router   *router.Router
	services ui.ServiceProvider
	view     state.View
	logger   *zap.Logger
	width    int
	height   int
}

// New creates the application model showing the main menu. initial seeds the
// view, for example with a wallet connected from the command line.
func New(services ui.ServiceProvider, initial state.View) *Model {
	return &Model{
		router:   router.New(ui.RouteMainMenu, screen.NewMainMenuScreen(services, initial)),
		services: services,
		view:     initial,
		logger:   services.GetLogger().Named("app"),
	}
}

// State returns the current snapshot.
func (m *Model) State() state.View {
	return m.view
}

// Init initializes the application
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.router.Init(),
		ui.ListenBus(),
	)
}

// Update handles application-level updates
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.forward(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		depth := m.router.Depth()
		cmd := m.forward(msg)
		// esc popped a screen; the one underneath may hold an older snapshot
		if m.router.Depth() < depth {
			return m, tea.Batch(cmd, m.broadcast())
		}
		return m, cmd

	case ui.ActionMsg:
		return m, m.apply(msg.Action)

	case ui.RouterMsg:
		return m, m.navigate(msg.To)

	case ui.BackMsg:
		cmd := m.router.Pop()
		return m, tea.Batch(cmd, m.broadcast())

	case ui.BusMsg:
		return m, tea.Batch(m.fromBus(msg.Msg), ui.ListenBus())
	}

	return m, m.forward(msg)
}

// fromBus turns messages published outside the tea loop into actions.
func (m *Model) fromBus(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ui.ActionMsg:
		return m.apply(msg.Action)
	case ui.ErrorMsg:
		text := msg.Title
		if msg.Error != nil {
			text += ": " + msg.Error.Error()
		}
		return m.apply(state.NoticePosted{Notice: state.Notice{Kind: state.NoticeError, Text: text}})
	case ui.SuccessMsg:
		text := msg.Message
		if msg.Title != "" {
			text = msg.Title + ": " + msg.Message
		}
		return m.apply(state.NoticePosted{Notice: state.Notice{Kind: state.NoticeSuccess, Text: text}})
	case nil:
		return nil
	default:
		return m.forward(msg)
	}
}

func (m *Model) apply(a state.Action) tea.Cmd {
	m.view = state.Reduce(m.view, a)
	m.logger.Debug("Action applied",
		zap.String("action", fmt.Sprintf("%T", a)),
		zap.Stringer("screen", m.router.Route()))
	return m.broadcast()
}

// broadcast hands the current snapshot to the screen on top of the stack.
func (m *Model) broadcast() tea.Cmd {
	return m.forward(ui.StateMsg{View: m.view})
}

func (m *Model) forward(msg tea.Msg) tea.Cmd {
	_, cmd := m.router.Update(msg)
	return cmd
}

// navigate shows route, returning to it when it is already open. The
// revealed or new screen then gets the current snapshot.
func (m *Model) navigate(route ui.Route) tea.Cmd {
	var build func() router.Screen

	switch route {
	case ui.RouteMainMenu:
		build = func() router.Screen { return screen.NewMainMenuScreen(m.services, m.view) }
	case ui.RouteWalletPicker:
		build = func() router.Screen { return screen.NewWalletPickerScreen(m.services, m.view) }
	case ui.RoutePools:
		build = func() router.Screen { return screen.NewPoolListScreen(m.services, m.view) }
	case ui.RouteCreatePosition:
		build = func() router.Screen { return screen.NewCreatePositionScreen(m.services, m.view) }
	case ui.RoutePositions:
		build = func() router.Screen { return screen.NewPositionsScreen(m.services, m.view) }
	case ui.RouteLogs:
		build = func() router.Screen { return screen.NewLogsScreen(m.services, m.view) }
	default:
		m.logger.Warn("Unknown route", zap.Int("route", int(route)))
		return nil
	}

	m.logger.Debug("Navigate", zap.Stringer("route", route), zap.Int("depth", m.router.Depth()))
	return tea.Batch(m.router.Show(route, build), m.broadcast())
}

// View renders the application
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return m.router.View()
}
