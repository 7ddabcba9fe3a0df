package component

import (
	"fmt"
	"math"
	"strings"

	"github.com/rovshanmuradov/dlmm-lp/internal/impermanent"
	"github.com/rovshanmuradov/dlmm-lp/internal/ui/style"
)

const (
	axisWidth     = 8
	defaultHeight = 8
)

// LossChart draws a loss curve as bars hanging from the 0% line, one
// column per sample. Columns inside the overlay are shaded.
type LossChart struct {
	curve   impermanent.LossCurve
	overlay *impermanent.Overlay
	title   string
	width   int
	height  int
	styles  style.ChartStyles
}

// NewLossChart creates a chart of the given plot height in rows.
func NewLossChart(height int) *LossChart {
	if height <= 0 {
		height = defaultHeight
	}
	return &LossChart{
		height: height,
		styles: style.NewChartStyles(style.DefaultPalette()),
	}
}

// SetCurve sets the samples to plot.
func (c *LossChart) SetCurve(curve impermanent.LossCurve) *LossChart {
	c.curve = curve
	return c
}

// Curve returns the plotted samples.
func (c *LossChart) Curve() impermanent.LossCurve {
	return c.curve
}

// SetOverlay shades the given percent-change range; nil clears it.
func (c *LossChart) SetOverlay(o *impermanent.Overlay) *LossChart {
	c.overlay = o
	return c
}

// SetTitle sets the line drawn above the plot; empty omits it.
func (c *LossChart) SetTitle(title string) *LossChart {
	c.title = title
	return c
}

// SetSize sets the total width and the plot height.
func (c *LossChart) SetSize(width, height int) *LossChart {
	c.width = width
	if height > 0 {
		c.height = height
	}
	return c
}

// columns picks one sample per plot column, downsampling when the
// curve has more samples than fit.
func (c *LossChart) columns() []impermanent.LossSample {
	n := len(c.curve)
	plot := n
	if c.width > 0 && c.width-axisWidth < plot {
		plot = max(c.width-axisWidth, 1)
	}
	if plot == n {
		return c.curve
	}
	cols := make([]impermanent.LossSample, plot)
	for i := range cols {
		cols[i] = c.curve[i*n/plot]
	}
	cols[plot-1] = c.curve[n-1]
	return cols
}

// View renders the chart.
func (c *LossChart) View() string {
	if len(c.curve) == 0 {
		return c.styles.Axis.Render("No data")
	}

	cols := c.columns()
	deepest := c.curve.Max()

	var b strings.Builder
	if c.title != "" {
		b.WriteString(c.styles.Title.Render(c.title))
		b.WriteString("\n")
	}

	for row := 0; row < c.height; row++ {
		b.WriteString(c.styles.Axis.Render(c.yLabel(row, deepest)))
		for _, s := range cols {
			b.WriteString(c.cell(row, s, deepest))
		}
		b.WriteString("\n")
	}

	b.WriteString(c.styles.Axis.Render(strings.Repeat(" ", axisWidth-1) + "└" + strings.Repeat("─", len(cols))))
	b.WriteString("\n")
	b.WriteString(c.styles.Axis.Render(strings.Repeat(" ", axisWidth) + xLabels(cols)))

	if c.overlay != nil {
		b.WriteString("\n")
		legend := fmt.Sprintf("░ position range %s..%s", formatPercent(c.overlay.Low), formatPercent(c.overlay.High))
		b.WriteString(c.styles.Legend.Render(legend))
	}
	return b.String()
}

func (c *LossChart) yLabel(row int, deepest float64) string {
	switch row {
	case 0:
		return fmt.Sprintf("%6s ┤", "0%")
	case c.height - 1:
		return fmt.Sprintf("%6s ┤", fmt.Sprintf("-%.1f%%", deepest))
	default:
		return strings.Repeat(" ", axisWidth-1) + "│"
	}
}

// cell renders one row of one column. A bar of loss L fills
// round(L/deepest*height) rows from the top.
func (c *LossChart) cell(row int, s impermanent.LossSample, deepest float64) string {
	filled := 0
	if deepest > 0 {
		filled = int(math.Round(s.LossPercent / deepest * float64(c.height)))
	}
	if filled == 0 && s.LossPercent > 0 && row == 0 {
		// visible tick for tiny losses
		return c.paint(s, "▔")
	}
	if row < filled {
		return c.paint(s, "█")
	}
	if c.overlay != nil && c.overlay.Contains(s.PercentChange) {
		return c.styles.Overlay.Render("░")
	}
	return " "
}

func (c *LossChart) paint(s impermanent.LossSample, glyph string) string {
	if c.overlay != nil && c.overlay.Contains(s.PercentChange) {
		return c.styles.Overlay.Render(glyph)
	}
	return c.styles.Bar.Render(glyph)
}

// xLabels places the first, zero and last percent changes under their columns.
func xLabels(cols []impermanent.LossSample) string {
	line := []rune(strings.Repeat(" ", len(cols)))
	put := func(at int, label string) {
		r := []rune(label)
		if at+len(r) > len(line) {
			at = len(line) - len(r)
		}
		if at < 0 {
			return
		}
		for i := at; i < at+len(r); i++ {
			if line[i] != ' ' {
				return
			}
		}
		copy(line[at:], r)
	}

	put(0, formatPercent(cols[0].PercentChange))
	end := formatPercent(cols[len(cols)-1].PercentChange)
	put(len(line)-len([]rune(end)), end)
	for i, s := range cols {
		if s.PercentChange == 0 {
			put(i, "0%")
			break
		}
	}
	return string(line)
}

func formatPercent(p int) string {
	if p > 0 {
		return fmt.Sprintf("+%d%%", p)
	}
	return fmt.Sprintf("%d%%", p)
}
