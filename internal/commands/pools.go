package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
)

var (
	poolsLimit int
	poolsQuery string
	poolsSort  string
)

var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "List DLMM pools",
	Long: `List DLMM pools of the configured program.

Examples:
  dlmm pools
  dlmm pools --query sol --sort price
  dlmm pools --limit 50`,
	Args: cobra.NoArgs,
	RunE: runPools,
}

func init() {
	rootCmd.AddCommand(poolsCmd)

	poolsCmd.Flags().IntVarP(&poolsLimit, "limit", "l", 0, "number of pools to load (default pool_limit)")
	poolsCmd.Flags().StringVarP(&poolsQuery, "query", "q", "", "filter by symbol, mint or address")
	poolsCmd.Flags().StringVarP(&poolsSort, "sort", "s", "none", "sort by none, liquidity or price")
}

func runPools(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newCLILogger(cfg)
	if err != nil {
		return err
	}
	defer syncLogger(log)

	sortKey, ok := dlmm.ParseSortKey(poolsSort)
	if !ok {
		return fmt.Errorf("unknown sort %q", poolsSort)
	}
	limit := poolsLimit
	if limit <= 0 {
		limit = cfg.PoolLimit
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	chain, err := newChain(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer chain.Close()

	pools, err := chain.pools.ListPools(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list pools: %w", err)
	}
	printPools(cmd.OutOrStdout(), dlmm.SortPools(dlmm.FilterPools(pools, poolsQuery), sortKey))
	return nil
}

func printPools(w io.Writer, pools []dlmm.Pool) {
	fmt.Fprintf(w, "%-20s %8s %10s %18s %-44s\n", "Pair", "Bin step", "Active", "Price", "Address")
	fmt.Fprintln(w, strings.Repeat("-", 104))
	for _, p := range pools {
		price := notAvailable
		if p.Price != nil {
			price = p.Price.StringFixed(8)
		}
		fmt.Fprintf(w, "%-20s %8d %10d %18s %-44s\n", p.DisplayName(), p.BinStep, p.ActiveID, price, p.Address)
	}
	fmt.Fprintf(w, "\nTotal: %d pools\n", len(pools))
}
