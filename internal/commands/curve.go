package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/export"
	"github.com/rovshanmuradov/dlmm-lp/internal/impermanent"
)

var (
	curveMax      int
	curveLower    int
	curveStep     int
	curveBinLower int
	curveBinUpper int
	curveOut      string
	curveFormat   string
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the impermanent loss curve",
	Long: `Sample impermanent loss for price changes from --lower to --max percent.

With --bin-lower and --bin-upper the samples inside that range (relative to
the active bin, one bin per percent) are marked.

Examples:
  dlmm curve --max 100
  dlmm curve --max 20 --lower -20 --step 1 --bin-lower -5 --bin-upper 5
  dlmm curve --out exports --format json`,
	Args: cobra.NoArgs,
	RunE: runCurve,
}

func init() {
	rootCmd.AddCommand(curveCmd)

	curveCmd.Flags().IntVar(&curveMax, "max", 0, "largest price change in percent (default chart_change_percent)")
	curveCmd.Flags().IntVar(&curveLower, "lower", impermanent.DefaultLowerBound, "smallest price change in percent, above -100")
	curveCmd.Flags().IntVar(&curveStep, "step", impermanent.DefaultStep, "distance between samples in percent")
	curveCmd.Flags().IntVar(&curveBinLower, "bin-lower", 0, "position range start, relative to the active bin")
	curveCmd.Flags().IntVar(&curveBinUpper, "bin-upper", 0, "position range end, relative to the active bin")
	curveCmd.Flags().StringVarP(&curveOut, "out", "o", "", "write the curve to a file in this directory")
	curveCmd.Flags().StringVar(&curveFormat, "format", string(export.FormatCSV), "file format for --out: csv or json")
	curveCmd.MarkFlagsRequiredTogether("bin-lower", "bin-upper")
}

func runCurve(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newCLILogger(cfg)
	if err != nil {
		return err
	}
	defer syncLogger(log)

	if !cmd.Flags().Changed("max") {
		curveMax = cfg.ChartChangePercent
	}
	curve, err := impermanent.SampleLossCurve(curveMax,
		impermanent.WithLowerBound(curveLower),
		impermanent.WithStep(curveStep))
	if err != nil {
		return err
	}

	var overlay *impermanent.Overlay
	if cmd.Flags().Changed("bin-lower") {
		if err := dlmm.ValidateBinRange(curveBinLower, curveBinUpper); err != nil {
			return err
		}
		o := impermanent.OverlayForBins(curveBinLower, curveBinUpper, 0)
		overlay = &o
	}

	out := cmd.OutOrStdout()
	printCurve(out, curve, overlay)

	if curveOut == "" {
		return nil
	}
	format, err := export.ParseFormat(curveFormat)
	if err != nil {
		return err
	}
	path, err := export.NewCurveExporter(log).Export(curve, export.ExportOptions{
		Format:    format,
		OutputDir: curveOut,
		Overlay:   overlay,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nWritten to %s\n", path)
	return nil
}

func printCurve(w io.Writer, curve impermanent.LossCurve, overlay *impermanent.Overlay) {
	fmt.Fprintf(w, "%8s %10s %10s\n", "Change", "Ratio", "Loss")
	fmt.Fprintln(w, strings.Repeat("-", 32))
	for _, s := range curve {
		mark := ""
		if overlay != nil && overlay.Contains(s.PercentChange) {
			mark = " *"
		}
		fmt.Fprintf(w, "%7d%% %10.4f %9.4f%%%s\n", s.PercentChange, s.Ratio, s.LossPercent, mark)
	}

	summary := export.Summarize(curve, overlay)
	fmt.Fprintf(w, "\nMax loss %.4f%% over %d%%..%d%%\n",
		summary.MaxLossPercent, summary.MinPercentChange, summary.MaxPercentChange)
	if overlay != nil {
		fmt.Fprintf(w, "Range %d%%..%d%%: %d samples, max loss %.4f%%\n",
			overlay.Low, overlay.High, summary.InRangeSamples, summary.MaxInRangeLoss)
	}
}
