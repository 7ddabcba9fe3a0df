package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// ActionMsg carries a state transition to the app model.
type ActionMsg struct {
	Action state.Action
}

// StateMsg delivers the latest snapshot to the current screen.
type StateMsg struct {
	View state.View
}

// BackMsg pops the current screen.
type BackMsg struct{}

// RefreshMsg fires a periodic reload. Seq ties it to one Init of the
// screen behind Route so stale ticks are dropped.
type RefreshMsg struct {
	Route Route
	Seq   int
}

// BusMsg wraps a message read from Bus so the app re-listens exactly once.
type BusMsg struct {
	Msg tea.Msg
}

// ErrorMsg represents error conditions
type ErrorMsg struct {
	Error error
	Title string
}

// SuccessMsg represents success conditions
type SuccessMsg struct {
	Message string
	Title   string
}

// Bus is the channel the app model drains between key presses.
var Bus = make(chan tea.Msg, 1024)

func publish(msg tea.Msg) {
	if GlobalBus != nil {
		GlobalBus.Send(msg)
		return
	}
	select {
	case Bus <- msg:
	default:
	}
}

// PublishAction publishes a state transition from outside the tea loop.
func PublishAction(a state.Action) {
	publish(ActionMsg{Action: a})
}

// PublishError publishes an error message to the UI bus
func PublishError(err error, title string) {
	publish(ErrorMsg{Error: err, Title: title})
}

// PublishSuccess publishes a success message to the UI bus
func PublishSuccess(message, title string) {
	publish(SuccessMsg{Message: message, Title: title})
}

// ListenBus returns a tea.Cmd that listens to the event bus
func ListenBus() tea.Cmd {
	return func() tea.Msg {
		return BusMsg{Msg: <-Bus}
	}
}

// Dispatch wraps an action as a command.
func Dispatch(a state.Action) tea.Cmd {
	return func() tea.Msg {
		return ActionMsg{Action: a}
	}
}

// Navigate returns a command that switches to route.
func Navigate(route Route) tea.Cmd {
	return func() tea.Msg {
		return RouterMsg{To: route}
	}
}

// Back returns a command that pops the current screen.
func Back() tea.Cmd {
	return func() tea.Msg {
		return BackMsg{}
	}
}

// Refresh schedules a RefreshMsg for route after d.
func Refresh(route Route, seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return RefreshMsg{Route: route, Seq: seq}
	})
}

// Route represents different screens in the application
type Route int

const (
	RouteMainMenu Route = iota
	RouteWalletPicker
	RoutePools
	RouteCreatePosition
	RoutePositions
	RouteLogs
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteMainMenu:
		return "main_menu"
	case RouteWalletPicker:
		return "wallet_picker"
	case RoutePools:
		return "pools"
	case RouteCreatePosition:
		return "create_position"
	case RoutePositions:
		return "positions"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}
