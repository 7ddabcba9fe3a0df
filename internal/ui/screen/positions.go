package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/impermanent"
	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/component"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/router"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/style"
)

const positionsChartHeight = 8

// PositionsScreen lists the connected wallet's positions and charts the
// impermanent loss curve with the selected position's range shaded.
type PositionsScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	view   state.View

	services ui.ServiceProvider
	interval time.Duration
	seq      int

	header  *component.StatusHeader
	table   *component.Table
	chart   *component.LossChart
	helpBar *component.HelpBar
}

// NewPositionsScreen creates a new positions screen
func NewPositionsScreen(services ui.ServiceProvider, view state.View) *PositionsScreen {
	keyMap := ui.DefaultKeyMap()
	cfg := services.GetConfig()

	// the configured range is validated on load; fall back to an empty chart
	curve, err := impermanent.SampleLossCurve(cfg.ChartChangePercent)
	if err != nil {
		services.GetLogger().Warn("Cannot sample loss curve",
			zap.Int("max_percent_change", cfg.ChartChangePercent), zap.Error(err))
	}

	table := component.NewTable().
		AddColumn("Position", 14, lipgloss.Left).
		AddColumn("Pool", 14, lipgloss.Left).
		AddColumn("Range", 18, lipgloss.Right).
		AddColumn("Active bin", 11, lipgloss.Right).
		AddColumn("In range", 9, lipgloss.Center).
		AddColumn("Liquidity", 14, lipgloss.Right).
		AddColumn("Value", 8, lipgloss.Right).
		SetEmptyText("No positions")

	s := &PositionsScreen{
		keyMap:   keyMap,
		services: services,
		interval: cfg.PositionRefresh,
		header:   component.NewStatusHeader(cfg.Network),
		table:    table,
		chart:    component.NewLossChart(positionsChartHeight).SetCurve(curve),
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RoutePositions)),
	}
	s.setView(view)
	return s
}

// Init loads positions for the connected wallet and starts the refresh timer.
func (s *PositionsScreen) Init() tea.Cmd {
	s.seq++
	if !s.view.Connected() {
		return nil
	}
	return tea.Batch(s.refresh(), s.tick())
}

func (s *PositionsScreen) tick() tea.Cmd {
	if s.interval <= 0 {
		return nil
	}
	return ui.Refresh(ui.RoutePositions, s.seq, s.interval)
}

func (s *PositionsScreen) refresh() tea.Cmd {
	if !s.view.Connected() || s.view.PositionsStatus == state.FetchLoading {
		return nil
	}
	return tea.Sequence(
		ui.Dispatch(state.PositionsRequested{}),
		loadPositions(s.services, s.view.Wallet.Address))
}

// Update handles screen updates
func (s *PositionsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.StateMsg:
		before := s.view.Wallet
		s.setView(msg.View)
		// a wallet picked while this screen was underneath
		if after := msg.View.Wallet; after != nil && (before == nil || before.Address != after.Address) {
			return s, s.Init()
		}
		return s, nil

	case ui.RefreshMsg:
		if msg.Route != ui.RoutePositions || msg.Seq != s.seq {
			return s, nil
		}
		return s, tea.Batch(s.refresh(), s.tick())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Up):
			return s, s.selectRow(s.table.MoveUp().GetSelectedRow())
		case key.Matches(msg, s.keyMap.Down):
			return s, s.selectRow(s.table.MoveDown().GetSelectedRow())
		case key.Matches(msg, s.keyMap.Refresh):
			return s, s.refresh()
		case key.Matches(msg, s.keyMap.Connect):
			return s, ui.Navigate(ui.RouteWalletPicker)
		}
	}
	return s, nil
}

func (s *PositionsScreen) selectRow(i int) tea.Cmd {
	if i == s.view.SelectedPosition || len(s.view.Positions) == 0 {
		return nil
	}
	return ui.Dispatch(state.PositionSelected{Index: i})
}

func (s *PositionsScreen) setView(v state.View) {
	s.view = v
	s.header.SetView(v)

	rows := make([][]string, len(v.Positions))
	for i, p := range v.Positions {
		active := notAvailable
		inRange := notAvailable
		if id, ok := p.ActiveBin(); ok {
			active = fmt.Sprintf("%d", id)
			inRange = "✗"
			if p.InRange() {
				inRange = "✓"
			}
		}
		rows[i] = []string{
			logger.ShortenAddress(p.Address.String()),
			logger.ShortenAddress(p.Pool.String()),
			fmt.Sprintf("%d..%d", p.LowerBinID, p.UpperBinID),
			active,
			inRange,
			p.Liquidity.StringFixed(0),
			formatDecimal(p.ValueUSD, 2),
		}
	}
	s.table.SetRows(rows)
	for i, p := range v.Positions {
		if _, ok := p.ActiveBin(); !ok {
			continue
		}
		s.table.SetRowStyle(i, style.RangeStyle(p.InRange()))
	}
	s.table.SetSelectedRow(v.SelectedPosition)

	if pos, ok := v.CurrentPosition(); ok {
		lo, hi := pos.RelativeRange()
		overlay := impermanent.OverlayForBins(lo, hi, 0)
		s.chart.SetOverlay(&overlay).
			SetTitle("Impermanent loss • " + logger.ShortenAddress(pos.Address.String()))
	} else {
		s.chart.SetOverlay(nil).SetTitle("Impermanent loss")
	}
}

// View renders the positions table and the loss chart.
func (s *PositionsScreen) View() string {
	var content strings.Builder

	content.WriteString(s.header.View())
	content.WriteString("\n")
	content.WriteString(style.TitleStyle.Render("My positions"))
	content.WriteString("\n")

	if !s.view.Connected() {
		content.WriteString(style.WarningStyle.Render("No wallet connected. Press w to pick one."))
		content.WriteString("\n\n")
		content.WriteString(s.helpBar.View())
		return content.String()
	}

	status := fmt.Sprintf("%d positions • updated %s",
		len(s.view.Positions), formatUpdated(s.view.PositionsUpdated))
	if s.view.PositionsStatus == state.FetchLoading {
		status += " • loading..."
	}
	content.WriteString(style.MutedStyle.Render(status))
	content.WriteString("\n")
	content.WriteString(s.table.View())
	content.WriteString("\n")
	content.WriteString(s.chart.View())
	content.WriteString("\n")
	content.WriteString(s.helpBar.View())
	return content.String()
}

// SetSize sets the screen dimensions
func (s *PositionsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.header.SetWidth(width)
	s.helpBar.SetWidth(width)

	tableHeight := max(height-positionsChartHeight-s.header.GetHeight()-8, 4)
	s.table.SetSize(width, tableHeight)
	s.chart.SetSize(width-2, positionsChartHeight)
}
