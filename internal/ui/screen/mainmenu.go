package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/component"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/router"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/style"
)

type menuItem struct {
	label       string
	description string
	route       ui.Route
	// needsWallet items send the user to the wallet picker first.
	needsWallet bool
}

var mainMenuItems = []menuItem{
	{label: "Connect wallet", description: "Choose a keypair from the wallets file", route: ui.RouteWalletPicker},
	{label: "Pools", description: "Browse DLMM pools and open a position", route: ui.RoutePools},
	{label: "My positions", description: "Positions of the connected wallet with an impermanent-loss estimate", route: ui.RoutePositions, needsWallet: true},
	{label: "Logs", description: "Recent application logs", route: ui.RouteLogs},
}

// MainMenuScreen lists the screens, each with a status badge taken from the
// current snapshot.
type MainMenuScreen struct {
	width    int
	height   int
	keyMap   ui.KeyMap
	view     state.View
	selected int

	header  *component.StatusHeader
	helpBar *component.HelpBar

	itemStyle     lipgloss.Style
	selectedStyle lipgloss.Style
	disabledStyle lipgloss.Style
	badgeStyle    lipgloss.Style
	descStyle     lipgloss.Style
	boxStyle      lipgloss.Style
}

func NewMainMenuScreen(services ui.ServiceProvider, view state.View) *MainMenuScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	header := component.NewStatusHeader(services.GetConfig().Network)
	header.SetView(view)

	return &MainMenuScreen{
		keyMap:  keyMap,
		view:    view,
		header:  header,
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteMainMenu)),

		itemStyle:     lipgloss.NewStyle().Foreground(palette.Text).Padding(0, 2),
		selectedStyle: lipgloss.NewStyle().Foreground(palette.Background).Background(palette.Primary).Padding(0, 2).Bold(true),
		disabledStyle: lipgloss.NewStyle().Foreground(palette.TextMuted).Padding(0, 2),
		badgeStyle:    lipgloss.NewStyle().Foreground(palette.TextSecondary),
		descStyle:     lipgloss.NewStyle().Foreground(palette.TextMuted).Padding(0, 4).Italic(true),
		boxStyle:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(palette.Primary).Padding(1, 4),
	}
}

func (m *MainMenuScreen) Init() tea.Cmd {
	return nil
}

func (m *MainMenuScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.StateMsg:
		m.view = msg.View
		m.header.SetView(msg.View)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Up):
			m.selected = (m.selected + len(mainMenuItems) - 1) % len(mainMenuItems)
		case key.Matches(msg, m.keyMap.Down):
			m.selected = (m.selected + 1) % len(mainMenuItems)
		case key.Matches(msg, m.keyMap.Enter):
			return m, m.open(mainMenuItems[m.selected])
		case key.Matches(msg, m.keyMap.Connect):
			return m, ui.Navigate(ui.RouteWalletPicker)
		case key.Matches(msg, m.keyMap.Pools):
			return m, ui.Navigate(ui.RoutePools)
		case key.Matches(msg, m.keyMap.Positions):
			return m, m.open(mainMenuItems[2])
		case key.Matches(msg, m.keyMap.Logs):
			return m, ui.Navigate(ui.RouteLogs)
		}
	}
	return m, nil
}

func (m *MainMenuScreen) open(item menuItem) tea.Cmd {
	if item.needsWallet && !m.view.Connected() {
		return ui.Navigate(ui.RouteWalletPicker)
	}
	return ui.Navigate(item.route)
}

func (m *MainMenuScreen) View() string {
	var content strings.Builder

	content.WriteString(m.header.View())
	content.WriteString("\n")
	content.WriteString(style.TitleStyle.Render("Main menu"))
	content.WriteString("\n")
	content.WriteString(m.boxStyle.Render(m.renderItems()))
	content.WriteString("\n")
	content.WriteString(m.helpBar.View())

	return content.String()
}

func (m *MainMenuScreen) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.header.SetWidth(width)
	m.helpBar.SetWidth(width)
}

func (m *MainMenuScreen) renderItems() string {
	lines := make([]string, 0, len(mainMenuItems)+1)
	for i, item := range mainMenuItems {
		locked := item.needsWallet && !m.view.Connected()

		s := m.itemStyle
		switch {
		case i == m.selected:
			s = m.selectedStyle
		case locked:
			s = m.disabledStyle
		}
		line := s.Render(item.label)
		if badge := m.badge(item.route); badge != "" {
			line += " " + m.badgeStyle.Render(badge)
		}
		lines = append(lines, line)

		if i == m.selected {
			desc := item.description
			if locked {
				desc += " (connect a wallet first)"
			}
			lines = append(lines, m.descStyle.Render(desc))
		}
	}
	return strings.Join(lines, "\n")
}

// badge summarizes what the screen behind route would show right now.
func (m *MainMenuScreen) badge(route ui.Route) string {
	v := m.view
	switch route {
	case ui.RouteWalletPicker:
		if v.Connected() {
			return fmt.Sprintf("(%s %s)", v.Wallet.Name, logger.ShortenAddress(v.Wallet.Address.String()))
		}
	case ui.RoutePools:
		return fetchBadge(v.PoolsStatus, fmt.Sprintf("%d loaded", len(v.Pools)))
	case ui.RoutePositions:
		if !v.Connected() {
			return ""
		}
		inRange := 0
		for _, p := range v.Positions {
			if p.InRange() {
				inRange++
			}
		}
		return fetchBadge(v.PositionsStatus, fmt.Sprintf("%d open, %d in range", len(v.Positions), inRange))
	}
	return ""
}

func fetchBadge(status state.FetchStatus, ready string) string {
	switch status {
	case state.FetchLoading:
		return "(loading...)"
	case state.FetchFailed:
		return "(failed)"
	case state.FetchReady:
		return "(" + ready + ")"
	}
	return ""
}
