package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain/solbc"
	"github.com/rovshanmuradov/dlmm-lp/internal/cache"
	"github.com/rovshanmuradov/dlmm-lp/internal/config"
	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
)

// chain bundles the services built from one configuration.
type chain struct {
	cache     cache.Cache
	pools     *dlmm.PoolService
	positions *dlmm.PositionService
	builder   *dlmm.Builder
}

func (c *chain) Close() error {
	return c.cache.Close()
}

// loadConfig reads --config. A missing file at the default path means
// built-in defaults.
func loadConfig() (*config.Config, error) {
	if !rootCmd.PersistentFlags().Changed("config") {
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			cfg := config.Default()
			cfg.DebugLogging = debug
			return cfg, nil
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if debug {
		cfg.DebugLogging = true
	}
	return cfg, nil
}

// newCLILogger returns the console logger used by every command but tui.
func newCLILogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.CreatePrettyLogger(cfg.DebugLogging)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return log, nil
}

func newChain(ctx context.Context, cfg *config.Config, log *zap.Logger) (*chain, error) {
	client, err := solbc.NewClient(cfg.RPCList, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}

	program := cfg.Program()
	c := cache.New(ctx, cfg.RedisURL, log)
	tokens := solbc.NewTokenMetadataCache(cfg.TokenListURL, log)

	log.Debug("Chain services ready",
		zap.String("network", cfg.Network),
		zap.String("rpc", cfg.PrimaryRPC()),
		zap.String("program", program.String()))

	return &chain{
		cache: c,
		pools: dlmm.NewPoolService(client, tokens, c, log, dlmm.PoolServiceOptions{
			ProgramID: program,
			CacheTTL:  cfg.PoolCacheTTL,
			Retries:   cfg.Retries,
		}),
		positions: dlmm.NewPositionService(client, program, log),
		builder:   dlmm.NewBuilder(client, program, cfg.Retries, log),
	}, nil
}

// syncLogger flushes log, ignoring the errors stderr returns when it is a terminal.
func syncLogger(log *zap.Logger) {
	if err := log.Sync(); err != nil && !os.IsNotExist(err) {
		if msg := err.Error(); msg != "sync /dev/stderr: inappropriate ioctl for device" &&
			msg != "sync /dev/stderr: invalid argument" {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}
}

const (
	// commandTimeout bounds the RPC work of one read-only command.
	commandTimeout = 2 * time.Minute
	notAvailable   = "n/a"
)
