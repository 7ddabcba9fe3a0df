package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/dlmm-lp/internal/config"
	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/logger"
	"github.com/rovshanmuradov/dlmm-lp/internal/wallet"
)

var (
	positionsWallet string
	positionsPair   string
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List positions owned by a wallet",
	Long: `List DLMM positions owned by a wallet, given by its name in the
wallets file or by address.

Examples:
  dlmm positions --wallet main
  dlmm positions --wallet 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin --pair <pool>`,
	Args: cobra.NoArgs,
	RunE: runPositions,
}

func init() {
	rootCmd.AddCommand(positionsCmd)

	positionsCmd.Flags().StringVarP(&positionsWallet, "wallet", "w", "", "wallet name or owner address")
	positionsCmd.Flags().StringVar(&positionsPair, "pair", "", "only positions in this pool")
	_ = positionsCmd.MarkFlagRequired("wallet")
}

func runPositions(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newCLILogger(cfg)
	if err != nil {
		return err
	}
	defer syncLogger(log)

	owner, err := resolveOwner(cfg, positionsWallet)
	if err != nil {
		return err
	}
	var pair *solana.PublicKey
	if positionsPair != "" {
		key, err := solana.PublicKeyFromBase58(positionsPair)
		if err != nil {
			return fmt.Errorf("invalid pair address: %w", err)
		}
		pair = &key
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	chain, err := newChain(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer chain.Close()

	positions, err := chain.positions.ListPositions(ctx, owner, pair)
	if err != nil {
		return fmt.Errorf("failed to list positions: %w", err)
	}
	printPositions(cmd.OutOrStdout(), positions)
	return nil
}

// resolveOwner accepts a wallet name from the wallets file or a base58 address.
func resolveOwner(cfg *config.Config, nameOrAddress string) (solana.PublicKey, error) {
	if wallets, err := wallet.Load(cfg.WalletsFile, cfg.KeypairPath); err == nil {
		if w, ok := wallets[nameOrAddress]; ok {
			return w.PublicKey, nil
		}
	}
	key, err := solana.PublicKeyFromBase58(nameOrAddress)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%q is neither a known wallet nor an address", nameOrAddress)
	}
	return key, nil
}

func printPositions(w io.Writer, positions []dlmm.Position) {
	fmt.Fprintf(w, "%-44s %-12s %-22s %10s %8s %16s\n", "Position", "Pool", "Bins", "Active", "In range", "Liquidity")
	fmt.Fprintln(w, strings.Repeat("-", 118))
	for _, p := range positions {
		active, inRange := notAvailable, notAvailable
		if id, ok := p.ActiveBin(); ok {
			active = fmt.Sprintf("%d", id)
			inRange = "no"
			if p.InRange() {
				inRange = "yes"
			}
		}
		fmt.Fprintf(w, "%-44s %-12s %-22s %10s %8s %16s\n",
			p.Address,
			logger.ShortenAddress(p.Pool.String()),
			fmt.Sprintf("%d..%d", p.LowerBinID, p.UpperBinID),
			active,
			inRange,
			p.Liquidity.StringFixed(0))
	}
	fmt.Fprintf(w, "\nTotal: %d positions\n", len(positions))
}
