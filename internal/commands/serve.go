package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve pools, positions and loss curves over HTTP",
	Long: `Start a JSON API:

  GET /health
  GET /il/curve?max=50&lower=-90&step=2&bin_lower=-5&bin_upper=5
  GET /pools?limit=20&q=sol&sort=price
  GET /positions/:owner?pair=<pool>`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default http_addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newCLILogger(cfg)
	if err != nil {
		return err
	}
	defer syncLogger(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chain, err := newChain(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer chain.Close()

	addr := serveAddr
	if addr == "" {
		addr = cfg.HTTPAddr
	}

	handler := api.NewAPIHandler(chain.pools, chain.positions, api.Options{
		PoolLimit:          cfg.PoolLimit,
		ChartChangePercent: cfg.ChartChangePercent,
	}, log)
	if err := handler.Serve(ctx, addr); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return err
	}
	log.Info("Server stopped")
	return nil
}
