package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Tab      key.Binding
	ShiftTab key.Binding

	// Screens
	Connect   key.Binding
	Pools     key.Binding
	Positions key.Binding
	Logs      key.Binding

	// Lists
	Search  key.Binding
	Sort    key.Binding
	Refresh key.Binding
	Debug   key.Binding

	// Forms
	Submit key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),

		Connect: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "wallet"),
		),
		Pools: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pools"),
		),
		Positions: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "positions"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l", "f12"),
			key.WithHelp("l", "logs"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/F5", "refresh"),
		),
		Debug: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "debug logs"),
		),

		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "open position"),
		),
	}
}

// ShortHelp returns key help text for the current context
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteMainMenu:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Connect, k.Pools, k.Positions, k.Quit}
	case RouteWalletPicker:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Back}
	case RoutePools:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Search, k.Sort, k.Refresh, k.Back}
	case RouteCreatePosition:
		return []key.Binding{k.Tab, k.ShiftTab, k.Submit, k.Back}
	case RoutePositions:
		return []key.Binding{k.Up, k.Down, k.Refresh, k.Connect, k.Back}
	case RouteLogs:
		return []key.Binding{k.Up, k.Down, k.Debug, k.Refresh, k.Back}
	default:
		return k.ShortHelp()
	}
}
