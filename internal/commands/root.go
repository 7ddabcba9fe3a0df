// Package commands implements the dlmm command line.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

// rootCmd opens the terminal UI when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "dlmm",
	Short: "Terminal client for DLMM liquidity positions",
	Long: `Browse DLMM pools, open liquidity positions over a bin range and
estimate their impermanent loss.

Run without a subcommand to open the terminal UI.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.RunE = runTUI
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}
