package component

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/style"
)

// StatusHeader shows the connected wallet, network and fetch status.
type StatusHeader struct {
	view    state.View
	network string
	width   int
	style   style.HeaderStyles
}

// NewStatusHeader creates a new status header component
func NewStatusHeader(network string) *StatusHeader {
	return &StatusHeader{
		network: network,
		view:    state.Initial(),
		style:   style.NewHeaderStyles(style.DefaultPalette()),
	}
}

// SetView updates the snapshot the header renders.
func (sh *StatusHeader) SetView(v state.View) {
	sh.view = v
}

// SetWidth sets the component width for responsive layout
func (sh *StatusHeader) SetWidth(width int) {
	sh.width = width
}

// View renders the status header
func (sh *StatusHeader) View() string {
	sep := sh.style.Neutral.Render(" | ")
	content := lipgloss.JoinHorizontal(lipgloss.Left,
		sh.style.Title.Render("DLMM LP"),
		sep,
		sh.renderWallet(),
		sep,
		sh.style.Neutral.Render(sh.network),
		sep,
		sh.renderFetch("Pools", sh.view.PoolsStatus, len(sh.view.Pools)),
	)

	container := sh.style.Container
	if sh.width > 4 {
		container = container.Width(sh.width - 4)
	}
	out := container.Render(content)

	if notice := sh.renderNotice(); notice != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, notice)
	}
	return out
}

func (sh *StatusHeader) renderWallet() string {
	w := sh.view.Wallet
	if w == nil {
		return sh.style.Bad.Render("Wallet: not connected")
	}
	return sh.style.Wallet.Render(fmt.Sprintf("Wallet: %s (%s)", w.Name, logger.ShortenAddress(w.Address.String())))
}

func (sh *StatusHeader) renderFetch(label string, status state.FetchStatus, n int) string {
	text := fmt.Sprintf("%s: %s", label, status)
	if status == state.FetchReady {
		text = fmt.Sprintf("%s: %d", label, n)
	}
	switch status {
	case state.FetchFailed:
		return sh.style.Bad.Render(text)
	case state.FetchReady:
		return sh.style.Good.Render(text)
	default:
		return sh.style.Neutral.Render(text)
	}
}

func (sh *StatusHeader) renderNotice() string {
	switch sh.view.Notice.Kind {
	case state.NoticeError:
		return sh.style.Bad.Render("✗ " + sh.view.Notice.Text)
	case state.NoticeSuccess:
		return sh.style.Good.Render("✓ " + sh.view.Notice.Text)
	default:
		return ""
	}
}

// GetHeight returns the component height for layout calculations
func (sh *StatusHeader) GetHeight() int {
	if sh.view.Notice.Kind != state.NoticeNone {
		return 4
	}
	return 3
}
