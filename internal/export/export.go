package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/impermanent"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ParseFormat accepts "csv" or "json", case-insensitively.
func ParseFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format: %q", s)
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format    ExportFormat
	OutputDir string
	// Overlay marks a position range; samples inside it are flagged.
	Overlay *impermanent.Overlay
	// Label is added to the file name, e.g. a pool symbol pair.
	Label string
}

// CurveExporter writes loss curves to disk
type CurveExporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewCurveExporter creates a new curve exporter
func NewCurveExporter(logger *zap.Logger) *CurveExporter {
	return &CurveExporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// Export writes the curve to a timestamped file in options.OutputDir and
// returns its path.
func (ce *CurveExporter) Export(curve impermanent.LossCurve, options ExportOptions) (string, error) {
	if len(curve) == 0 {
		return "", fmt.Errorf("no samples to export")
	}
	if options.OutputDir == "" {
		options.OutputDir = "."
	}

	filename := ce.generateFilename(options)
	outputPath := filepath.Join(options.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = ce.exportToCSV(curve, options.Overlay, outputPath)
	case FormatJSON:
		err = ce.exportToJSON(curve, options.Overlay, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	ce.logger.Info("Loss curve exported",
		zap.String("file", outputPath),
		zap.Int("samples", len(curve)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// generateFilename creates a filename based on export options
func (ce *CurveExporter) generateFilename(options ExportOptions) string {
	timestamp := ce.now().Format("20060102_150405")

	prefix := "il_curve"
	if label := sanitizeLabel(options.Label); label != "" {
		prefix += "_" + label
	}
	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

func sanitizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '/' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// CSVHeaders returns the header row of a curve CSV file.
func CSVHeaders() []string {
	return []string{"percent_change", "ratio", "loss_percent", "in_range"}
}

func sampleRow(s impermanent.LossSample, overlay *impermanent.Overlay) []string {
	inRange := ""
	if overlay != nil {
		inRange = strconv.FormatBool(overlay.Contains(s.PercentChange))
	}
	return []string{
		strconv.Itoa(s.PercentChange),
		strconv.FormatFloat(s.Ratio, 'f', -1, 64),
		strconv.FormatFloat(s.LossPercent, 'f', -1, 64),
		inRange,
	}
}

// exportToCSV exports samples to CSV format
func (ce *CurveExporter) exportToCSV(curve impermanent.LossCurve, overlay *impermanent.Overlay, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, s := range curve {
		if err := writer.Write(sampleRow(s, overlay)); err != nil {
			return fmt.Errorf("failed to write sample: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// CurveDocument is the JSON export layout.
type CurveDocument struct {
	ExportTime  time.Time             `json:"export_time"`
	SampleCount int                   `json:"sample_count"`
	Overlay     *impermanent.Overlay  `json:"overlay,omitempty"`
	Summary     CurveSummary          `json:"summary"`
	Samples     impermanent.LossCurve `json:"samples"`
}

// exportToJSON exports samples to JSON format
func (ce *CurveExporter) exportToJSON(curve impermanent.LossCurve, overlay *impermanent.Overlay, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	doc := CurveDocument{
		ExportTime:  ce.now(),
		SampleCount: len(curve),
		Overlay:     overlay,
		Summary:     Summarize(curve, overlay),
		Samples:     curve,
	}
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// CurveSummary holds headline numbers of an exported curve
type CurveSummary struct {
	MinPercentChange int     `json:"min_percent_change"`
	MaxPercentChange int     `json:"max_percent_change"`
	MaxLossPercent   float64 `json:"max_loss_percent"`
	// Range figures are only set when an overlay is given.
	InRangeSamples      int     `json:"in_range_samples,omitempty"`
	MaxInRangeLoss      float64 `json:"max_in_range_loss_percent,omitempty"`
	LossAtRangeLowEdge  float64 `json:"loss_at_range_low,omitempty"`
	LossAtRangeHighEdge float64 `json:"loss_at_range_high,omitempty"`
}

// Summarize calculates summary statistics for a curve.
func Summarize(curve impermanent.LossCurve, overlay *impermanent.Overlay) CurveSummary {
	if len(curve) == 0 {
		return CurveSummary{}
	}

	summary := CurveSummary{
		MinPercentChange: curve[0].PercentChange,
		MaxPercentChange: curve[len(curve)-1].PercentChange,
		MaxLossPercent:   curve.Max(),
	}
	if overlay == nil {
		return summary
	}

	inside := curve.Within(*overlay)
	summary.InRangeSamples = len(inside)
	summary.MaxInRangeLoss = inside.Max()
	if len(inside) > 0 {
		summary.LossAtRangeLowEdge = inside[0].LossPercent
		summary.LossAtRangeHighEdge = inside[len(inside)-1].LossPercent
	}
	return summary
}
