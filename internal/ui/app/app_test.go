package app

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/screen"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/uitest"
)

func newModel(t *testing.T, wallets ...string) (*Model, *uitest.Provider) {
	t.Helper()
	p := uitest.NewProvider(wallets...)
	m := New(p, state.Initial())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, p
}

func TestModel_InitialView(t *testing.T) {
	m := New(uitest.NewProvider(), state.Initial())
	assert.Equal(t, "Initializing...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Contains(t, m.View(), "Main menu")
}

func TestModel_NavigateAndBack(t *testing.T) {
	m, _ := newModel(t, "main")

	m.Update(ui.RouterMsg{To: ui.RouteWalletPicker})
	require.Equal(t, 2, m.router.Depth())
	assert.IsType(t, &screen.WalletPickerScreen{}, m.router.Current())

	m.Update(ui.BackMsg{})
	assert.Equal(t, 1, m.router.Depth())

	m.Update(ui.RouterMsg{To: ui.RouteLogs})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, m.router.Depth())

	m.Update(ui.RouterMsg{To: ui.RouteLogs})
	m.Update(ui.RouterMsg{To: ui.RouteMainMenu})
	assert.Equal(t, 1, m.router.Depth())
}

func TestModel_NavigateToOpenRouteUnwinds(t *testing.T) {
	m, _ := newModel(t, "main")

	m.Update(ui.RouterMsg{To: ui.RoutePositions})
	m.Update(ui.RouterMsg{To: ui.RouteWalletPicker})
	require.Equal(t, 3, m.router.Depth())

	m.Update(ui.RouterMsg{To: ui.RoutePositions})
	assert.Equal(t, 2, m.router.Depth())
	assert.Equal(t, ui.RoutePositions, m.router.Route())
	assert.IsType(t, &screen.PositionsScreen{}, m.router.Current())
}

func TestModel_ActionReachesScreen(t *testing.T) {
	m, p := newModel(t, "main")

	m.Update(ui.RouterMsg{To: ui.RouteWalletPicker})
	ref := state.WalletRef{Name: "main", Address: p.Wallets["main"].PublicKey}
	m.Update(ui.ActionMsg{Action: state.WalletConnected{Wallet: ref}})
	m.Update(ui.BackMsg{})

	require.NotNil(t, m.State().Wallet)
	assert.Equal(t, "main", m.State().Wallet.Name)
	assert.Contains(t, m.View(), "Connected main")
}

func TestModel_BusMessagesBecomeNotices(t *testing.T) {
	m, _ := newModel(t)

	_, cmd := m.Update(ui.BusMsg{Msg: ui.ErrorMsg{Error: errors.New("file not found"), Title: "Wallets"}})
	assert.NotNil(t, cmd, "the app listens to the bus again")
	assert.Equal(t, state.NoticeError, m.State().Notice.Kind)
	assert.Equal(t, "Wallets: file not found", m.State().Notice.Text)

	m.Update(ui.BusMsg{Msg: ui.SuccessMsg{Message: "3 wallets loaded"}})
	assert.Equal(t, state.Notice{Kind: state.NoticeSuccess, Text: "3 wallets loaded"}, m.State().Notice)

	m.Update(ui.BusMsg{Msg: ui.ActionMsg{Action: state.NoticeCleared{}}})
	assert.Equal(t, state.Notice{}, m.State().Notice)
}

func TestModel_CtrlCQuits(t *testing.T) {
	m, _ := newModel(t)
	m.Update(ui.RouterMsg{To: ui.RoutePools})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
