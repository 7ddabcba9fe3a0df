// Package uitest provides testify mocks of the chain services and helpers
// for driving screens in tests.
package uitest

import (
	"context"
	"reflect"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/config"
	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
	"github.com/rovshanmuradov/dlmm-lp/internal/wallet"
)

type Pools struct {
	mock.Mock
}

func (m *Pools) ListPools(ctx context.Context, limit int) ([]dlmm.Pool, error) {
	args := m.Called(ctx, limit)
	pools, _ := args.Get(0).([]dlmm.Pool)
	return pools, args.Error(1)
}

func (m *Pools) GetPool(ctx context.Context, address solana.PublicKey) (*dlmm.Pool, error) {
	args := m.Called(ctx, address)
	pool, _ := args.Get(0).(*dlmm.Pool)
	return pool, args.Error(1)
}

type Positions struct {
	mock.Mock
}

func (m *Positions) ListPositions(ctx context.Context, owner solana.PublicKey, pair *solana.PublicKey) ([]dlmm.Position, error) {
	args := m.Called(ctx, owner, pair)
	positions, _ := args.Get(0).([]dlmm.Position)
	return positions, args.Error(1)
}

type Opener struct {
	mock.Mock
}

func (m *Opener) OpenPosition(ctx context.Context, params dlmm.CreatePositionParams, signer dlmm.Signer) (*dlmm.OpenResult, error) {
	args := m.Called(ctx, params, signer)
	res, _ := args.Get(0).(*dlmm.OpenResult)
	return res, args.Error(1)
}

// Provider is a ServiceProvider over mocks with default configuration and
// no refresh timers.
type Provider struct {
	Pools     *Pools
	Positions *Positions
	Opener    *Opener
	Wallets   map[string]*wallet.Wallet
	Config    *config.Config
}

var _ ui.ServiceProvider = (*Provider)(nil)

// NewProvider returns a provider with fresh mocks and one wallet per name.
func NewProvider(walletNames ...string) *Provider {
	cfg := config.Default()
	cfg.PoolRefresh = 0
	cfg.PositionRefresh = 0

	wallets := make(map[string]*wallet.Wallet, len(walletNames))
	for _, name := range walletNames {
		key := solana.NewWallet().PrivateKey
		wallets[name] = &wallet.Wallet{Name: name, PrivateKey: key, PublicKey: key.PublicKey()}
	}

	return &Provider{
		Pools:     &Pools{},
		Positions: &Positions{},
		Opener:    &Opener{},
		Wallets:   wallets,
		Config:    cfg,
	}
}

func (p *Provider) GetPools() dlmm.PoolLister             { return p.Pools }
func (p *Provider) GetPositions() dlmm.PositionLister     { return p.Positions }
func (p *Provider) GetOpener() dlmm.PositionOpener        { return p.Opener }
func (p *Provider) GetWallets() map[string]*wallet.Wallet { return p.Wallets }
func (p *Provider) GetLogger() *zap.Logger                { return zap.NewNop() }
func (p *Provider) GetConfig() *config.Config             { return p.Config }
func (p *Provider) GetContext() context.Context           { return context.Background() }
func (p *Provider) GetLogBuffer() *logger.LogBuffer       { return nil }

// Collect runs cmd and returns the messages it produces, unpacking batches
// and sequences. Commands that do not finish within wait, such as timers,
// are dropped.
func Collect(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(wait):
		return nil
	}

	v := reflect.ValueOf(msg)
	if v.Kind() == reflect.Slice && v.Type().Elem() == cmdType {
		var out []tea.Msg
		for i := 0; i < v.Len(); i++ {
			c, _ := v.Index(i).Interface().(tea.Cmd)
			out = append(out, Collect(c, wait)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

var cmdType = reflect.TypeOf(tea.Cmd(nil))

// Actions returns the state actions among msgs, in order.
func Actions(msgs []tea.Msg) []state.Action {
	var out []state.Action
	for _, m := range msgs {
		if a, ok := m.(ui.ActionMsg); ok {
			out = append(out, a.Action)
		}
	}
	return out
}

// Key builds a key press for s, such as "enter", "esc" or a single rune.
func Key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
