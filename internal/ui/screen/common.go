package screen

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
)

const (
	requestTimeout = 30 * time.Second
	// openTimeout covers blockhash, retries and confirmation.
	openTimeout = 2 * time.Minute

	notAvailable = "n/a"
)

// loadPools returns a command that resolves to PoolsLoaded or PoolsFailed.
func loadPools(services ui.ServiceProvider) tea.Cmd {
	lister := services.GetPools()
	limit := services.GetConfig().PoolLimit
	parent := services.GetContext()
	log := services.GetLogger()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()

		pools, err := lister.ListPools(ctx, limit)
		if err != nil {
			log.Warn("Failed to load pools", zap.Error(err))
			return ui.ActionMsg{Action: state.PoolsFailed{Err: err}}
		}
		log.Debug("Pools loaded", zap.Int("count", len(pools)))
		return ui.ActionMsg{Action: state.PoolsLoaded{Pools: pools, At: time.Now()}}
	}
}

// loadPositions returns a command that resolves to PositionsLoaded or PositionsFailed.
func loadPositions(services ui.ServiceProvider, owner solana.PublicKey) tea.Cmd {
	lister := services.GetPositions()
	parent := services.GetContext()
	log := services.GetLogger()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()

		positions, err := lister.ListPositions(ctx, owner, nil)
		if err != nil {
			log.Warn("Failed to load positions",
				zap.String("owner", logger.ShortenAddress(owner.String())),
				zap.Error(err))
			return ui.ActionMsg{Action: state.PositionsFailed{Owner: owner, Err: err}}
		}
		return ui.ActionMsg{Action: state.PositionsLoaded{Owner: owner, Positions: positions, At: time.Now()}}
	}
}

// openPosition submits params signed by signer and resolves to PositionOpened or PositionFailed.
func openPosition(services ui.ServiceProvider, params dlmm.CreatePositionParams, signer dlmm.Signer) tea.Cmd {
	opener := services.GetOpener()
	parent := services.GetContext()
	log := services.GetLogger()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, openTimeout)
		defer cancel()

		res, err := opener.OpenPosition(ctx, params, signer)
		if err != nil {
			log.Error("Failed to open position", zap.String("pair", params.Pair.String()), zap.Error(err))
			return ui.ActionMsg{Action: state.PositionFailed{Err: err}}
		}
		log.Info("Position opened",
			zap.String("position", res.Position.String()),
			zap.String("signature", res.Signature.String()))
		return ui.ActionMsg{Action: state.PositionOpened{
			Signature: res.Signature.String(),
			Position:  logger.ShortenAddress(res.Position.String()),
		}}
	}
}

func formatDecimal(d *decimal.Decimal, places int32) string {
	if d == nil {
		return notAvailable
	}
	return d.StringFixed(places)
}

func formatPrice(d *decimal.Decimal) string {
	if d == nil {
		return notAvailable
	}
	if d.Abs().LessThan(decimal.NewFromInt(1)) {
		return d.StringFixed(8)
	}
	return d.StringFixed(4)
}

func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("15:04:05")
}
