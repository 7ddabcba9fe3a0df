package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/app"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
	"github.com/rovshanmuradov/dlmm-lp/internal/wallet"
)

const (
	logBufferSize    = 1000
	logFlushInterval = 5 * time.Second
	prefetchTimeout  = 30 * time.Second
	tuiLogFile       = "dlmm-tui.log"
)

var tuiWallet string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal UI",
	Long: `Open the terminal UI: pick a wallet, browse pools, open a position
over a bin range and follow your positions with an impermanent-loss chart.

Logs are kept in memory for the Logs screen and spilled to log_dir.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().StringVarP(&tuiWallet, "wallet", "w", "", "connect this wallet on start")
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// nothing may write to the terminal while the alt screen is up
	buffer, err := logger.NewLogBuffer(logBufferSize, filepath.Join(cfg.LogDir, tuiLogFile), nil)
	if err != nil {
		return fmt.Errorf("failed to create log buffer: %w", err)
	}
	defer buffer.Close()
	stopFlush := buffer.StartPeriodicFlush(logFlushInterval)
	defer close(stopFlush)

	log, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, buffer)
	if err != nil {
		return err
	}
	log.Info("Starting DLMM TUI", zap.String("network", cfg.Network))

	ui.InitBus(ui.Bus, log.Named("bus"))
	defer ui.GlobalBus.Close()

	chain, err := newChain(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer chain.Close()

	wallets, err := wallet.Load(cfg.WalletsFile, cfg.KeypairPath)
	if err != nil {
		log.Warn("No wallets loaded", zap.String("file", cfg.WalletsFile), zap.Error(err))
		ui.PublishError(err, "Wallets")
	} else {
		log.Info("Wallets loaded", zap.Int("count", len(wallets)))
	}
	if tuiWallet != "" {
		w, ok := wallets[tuiWallet]
		if !ok {
			return fmt.Errorf("wallet %q not found in %s", tuiWallet, cfg.WalletsFile)
		}
		ui.PublishAction(state.WalletConnected{Wallet: state.WalletRef{Name: w.Name, Address: w.PublicKey}})
	}

	services := ui.NewRealServiceProvider(ctx, cfg, log, ui.Services{
		Pools:     chain.pools,
		Positions: chain.positions,
		Opener:    chain.builder,
		Wallets:   wallets,
		LogBuffer: buffer,
	})

	// a restarted UI resumes from the last snapshot
	var last *app.Model
	handler := ui.NewRecoveryHandler(log, func() (tea.Model, []tea.ProgramOption) {
		initial := state.Initial()
		if last != nil {
			initial = last.State()
		}
		last = app.New(services, initial)
		return ui.NewSafeUIWrapper(last, log), []tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return handler.RunWithRecovery()
	})
	g.Go(func() error {
		<-gctx.Done()
		handler.Stop()
		return nil
	})
	g.Go(func() error {
		prefetchPools(gctx, chain.pools, cfg.PoolLimit, log)
		return nil
	})

	err = g.Wait()
	sent, dropped := ui.GlobalBus.Stats()
	log.Info("TUI stopped",
		zap.Int("restarts", handler.GetRestartCount()),
		zap.Uint64("bus_sent", sent),
		zap.Uint64("bus_dropped", dropped))
	return err
}

// prefetchPools loads the first pool page while the main menu is shown.
func prefetchPools(ctx context.Context, pools dlmm.PoolLister, limit int, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, prefetchTimeout)
	defer cancel()

	ui.PublishAction(state.PoolsRequested{})
	list, err := pools.ListPools(ctx, limit)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("Pool prefetch failed", zap.Error(err))
		}
		ui.PublishAction(state.PoolsFailed{Err: err})
		return
	}
	ui.PublishAction(state.PoolsLoaded{Pools: list, At: time.Now()})
}
