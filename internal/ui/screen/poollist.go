package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/component"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/router"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/style"
)

// PoolListScreen lists pools with search, sort and periodic refresh.
type PoolListScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	view   state.View

	services ui.ServiceProvider
	interval time.Duration
	seq      int

	// visible is the filtered, sorted list the table rows were built from
	visible   []dlmm.Pool
	searching bool
	search    textinput.Model

	header  *component.StatusHeader
	table   *component.Table
	helpBar *component.HelpBar
}

// NewPoolListScreen creates a new pool list screen
func NewPoolListScreen(services ui.ServiceProvider, view state.View) *PoolListScreen {
	keyMap := ui.DefaultKeyMap()
	cfg := services.GetConfig()

	search := textinput.New()
	search.Placeholder = "symbol, mint or address"
	search.Prompt = "/ "
	search.CharLimit = 64
	search.SetValue(view.PoolQuery)

	table := component.NewTable().
		AddColumn("Pair", 18, lipgloss.Left).
		AddColumn("Bin step", 9, lipgloss.Right).
		AddColumn("Active bin", 11, lipgloss.Right).
		AddColumn("Price", 16, lipgloss.Right).
		AddColumn("Liquidity", 12, lipgloss.Right).
		AddColumn("Address", 14, lipgloss.Left).
		SetEmptyText("No pools")

	s := &PoolListScreen{
		keyMap:   keyMap,
		services: services,
		interval: cfg.PoolRefresh,
		search:   search,
		header:   component.NewStatusHeader(cfg.Network),
		table:    table,
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RoutePools)),
	}
	s.setView(view)
	return s
}

// Init loads pools on first visit and starts the refresh timer.
func (s *PoolListScreen) Init() tea.Cmd {
	s.seq++
	cmds := []tea.Cmd{s.tick()}
	if s.view.PoolsStatus == state.FetchIdle {
		cmds = append(cmds, s.refresh())
	}
	return tea.Batch(cmds...)
}

func (s *PoolListScreen) tick() tea.Cmd {
	if s.interval <= 0 {
		return nil
	}
	return ui.Refresh(ui.RoutePools, s.seq, s.interval)
}

func (s *PoolListScreen) refresh() tea.Cmd {
	if s.view.PoolsStatus == state.FetchLoading {
		return nil
	}
	return tea.Sequence(ui.Dispatch(state.PoolsRequested{}), loadPools(s.services))
}

// CapturesInput is true while the search box has focus.
func (s *PoolListScreen) CapturesInput() bool {
	return s.searching
}

// Update handles screen updates
func (s *PoolListScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.StateMsg:
		s.setView(msg.View)
		return s, nil

	case ui.RefreshMsg:
		if msg.Route != ui.RoutePools || msg.Seq != s.seq {
			return s, nil
		}
		return s, tea.Batch(s.refresh(), s.tick())

	case tea.KeyMsg:
		if s.searching {
			return s, s.updateSearch(msg)
		}

		switch {
		case key.Matches(msg, s.keyMap.Up):
			s.table.MoveUp()
		case key.Matches(msg, s.keyMap.Down):
			s.table.MoveDown()
		case key.Matches(msg, s.keyMap.Search):
			s.searching = true
			return s, s.search.Focus()
		case key.Matches(msg, s.keyMap.Sort):
			return s, ui.Dispatch(state.PoolSortCycled{})
		case key.Matches(msg, s.keyMap.Refresh):
			return s, s.refresh()
		case key.Matches(msg, s.keyMap.Enter):
			if len(s.visible) == 0 {
				return s, nil
			}
			pool := s.visible[s.table.GetSelectedRow()]
			return s, tea.Sequence(
				ui.Dispatch(state.PoolSelected{Pool: pool}),
				ui.Navigate(ui.RouteCreatePosition))
		}
	}
	return s, nil
}

func (s *PoolListScreen) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		s.searching = false
		s.search.Blur()
		return nil
	}

	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if q := s.search.Value(); q != s.view.PoolQuery {
		return tea.Batch(cmd, ui.Dispatch(state.PoolQueryChanged{Query: q}))
	}
	return cmd
}

func (s *PoolListScreen) setView(v state.View) {
	s.view = v
	s.header.SetView(v)
	s.visible = v.VisiblePools()

	rows := make([][]string, len(s.visible))
	for i, p := range s.visible {
		rows[i] = []string{
			p.DisplayName(),
			fmt.Sprintf("%d", p.BinStep),
			fmt.Sprintf("%d", p.ActiveID),
			formatPrice(p.Price),
			formatDecimal(p.LiquidityUSD, 0),
			logger.ShortenAddress(p.Address.String()),
		}
	}
	s.table.SetRows(rows)
}

// View renders the pool list
func (s *PoolListScreen) View() string {
	var content strings.Builder

	content.WriteString(s.header.View())
	content.WriteString("\n")
	content.WriteString(style.TitleStyle.Render("Pools"))
	content.WriteString("\n")

	if s.searching || s.view.PoolQuery != "" {
		content.WriteString(s.search.View())
		content.WriteString("\n")
	}

	status := fmt.Sprintf("%d of %d shown • sort: %s • updated %s",
		len(s.visible), len(s.view.Pools), s.view.PoolSort, formatUpdated(s.view.PoolsUpdated))
	if s.view.PoolsStatus == state.FetchLoading {
		status += " • loading..."
	}
	content.WriteString(style.MutedStyle.Render(status))
	content.WriteString("\n")

	content.WriteString(s.table.View())
	content.WriteString("\n")
	content.WriteString(s.helpBar.View())
	return content.String()
}

// SetSize sets the screen dimensions
func (s *PoolListScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.header.SetWidth(width)
	s.table.SetSize(width-2, max(height-14, 3))
	s.helpBar.SetWidth(width)
}
