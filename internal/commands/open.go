package commands

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/wallet"
)

var (
	openWallet string
	openPool   string
	openLeft   int
	openRight  int
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a position over a bin range",
	Long: `Open an empty liquidity position in a pool. --left and --right are bin
offsets from the pool's active bin; left must be below right.

Example:
  dlmm open --wallet main --pool <pool> --left -5 --right 5`,
	Args: cobra.NoArgs,
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().StringVarP(&openWallet, "wallet", "w", "", "wallet name from the wallets file")
	openCmd.Flags().StringVarP(&openPool, "pool", "p", "", "pool address")
	openCmd.Flags().IntVar(&openLeft, "left", -5, "left bin, relative to the active bin")
	openCmd.Flags().IntVar(&openRight, "right", 5, "right bin, relative to the active bin")
	_ = openCmd.MarkFlagRequired("wallet")
	_ = openCmd.MarkFlagRequired("pool")
}

func runOpen(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newCLILogger(cfg)
	if err != nil {
		return err
	}
	defer syncLogger(log)

	if err := dlmm.ValidateBinRange(openLeft, openRight); err != nil {
		return err
	}
	poolAddr, err := solana.PublicKeyFromBase58(openPool)
	if err != nil {
		return fmt.Errorf("invalid pool address: %w", err)
	}

	wallets, err := wallet.Load(cfg.WalletsFile, cfg.KeypairPath)
	if err != nil {
		return fmt.Errorf("failed to load wallets: %w", err)
	}
	signer, ok := wallets[openWallet]
	if !ok {
		return fmt.Errorf("%w: %q is not in %s", dlmm.ErrWalletRequired, openWallet, cfg.WalletsFile)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	chain, err := newChain(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer chain.Close()

	pool, err := chain.pools.GetPool(ctx, poolAddr)
	if err != nil {
		return err
	}

	params := dlmm.NewCreatePositionParams(signer.PublicKey, *pool, openLeft, openRight)
	log.Info("Opening position",
		zap.String("pool", pool.DisplayName()),
		zap.Int32("active_bin", pool.ActiveID),
		zap.Int("left", openLeft),
		zap.Int("right", openRight),
		zap.String("wallet", signer.Short()))

	res, err := chain.builder.OpenPosition(ctx, params, signer)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Signature: %s\n", res.Signature)
	fmt.Fprintf(out, "Position:  %s\n", res.Position)
	fmt.Fprintf(out, "Mint:      %s\n", res.PositionMint)
	return nil
}
