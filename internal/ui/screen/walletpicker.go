package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/component"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/router"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/style"
	"github.com/rovshanmuradov/dlmm-lp/internal/wallet"
)

// WalletPickerScreen "connects" a wallet by selecting one of the loaded keypairs.
type WalletPickerScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	view   state.View

	wallets map[string]*wallet.Wallet
	names   []string
	source  string

	table   *component.Table
	helpBar *component.HelpBar
}

// NewWalletPickerScreen creates a new wallet picker
func NewWalletPickerScreen(services ui.ServiceProvider, view state.View) *WalletPickerScreen {
	keyMap := ui.DefaultKeyMap()
	wallets := services.GetWallets()
	names := wallet.Names(wallets)

	table := component.NewTable().
		AddColumn("Name", 16, lipgloss.Left).
		AddColumn("Address", 0, lipgloss.Left).
		SetEmptyText("No wallets loaded")

	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, wallets[name].String()}
		if view.Wallet != nil && view.Wallet.Name == name {
			rows[i][0] = name + " ●"
		}
	}
	table.SetRows(rows)
	for i, name := range names {
		if view.Wallet != nil && view.Wallet.Name == name {
			table.SetSelectedRow(i)
		}
	}

	return &WalletPickerScreen{
		keyMap:  keyMap,
		view:    view,
		wallets: wallets,
		names:   names,
		source:  services.GetConfig().WalletsFile,
		table:   table,
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteWalletPicker)),
	}
}

func (s *WalletPickerScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (s *WalletPickerScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.StateMsg:
		s.view = msg.View

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Up):
			s.table.MoveUp()
		case key.Matches(msg, s.keyMap.Down):
			s.table.MoveDown()
		case key.Matches(msg, s.keyMap.Enter):
			if len(s.names) == 0 {
				return s, nil
			}
			name := s.names[s.table.GetSelectedRow()]
			ref := state.WalletRef{Name: name, Address: s.wallets[name].PublicKey}
			return s, tea.Sequence(ui.Dispatch(state.WalletConnected{Wallet: ref}), ui.Back())
		}
	}
	return s, nil
}

// View renders the wallet picker
func (s *WalletPickerScreen) View() string {
	var content strings.Builder

	content.WriteString(style.TitleStyle.Render("Connect wallet"))
	content.WriteString("\n")
	if len(s.names) == 0 {
		hint := fmt.Sprintf("Add keypairs to %s or set keypair_path in the config.", s.source)
		content.WriteString(style.MutedStyle.Render(hint))
		content.WriteString("\n")
	}
	content.WriteString(s.table.View())
	content.WriteString("\n")
	content.WriteString(s.helpBar.View())

	return content.String()
}

// SetSize sets the screen dimensions
func (s *WalletPickerScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.table.SetSize(width-2, max(height-8, 3))
	s.helpBar.SetWidth(width)
}
