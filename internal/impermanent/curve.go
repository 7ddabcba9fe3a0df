package impermanent

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// DefaultLowerBound is the default left edge of the chart domain, in percent.
	DefaultLowerBound = -90
	// DefaultStep is the default sampling step, in percent.
	DefaultStep = 2
	// LossPrecision is the number of decimal digits kept in LossSample.LossPercent.
	LossPrecision = 4
	// MaxSamples caps the number of samples a single curve may hold.
	MaxSamples = 10_000
)

// LossSample is one point of a loss curve.
type LossSample struct {
	PercentChange int     `json:"percentChange"`
	Ratio         float64 `json:"ratio"`
	LossPercent   float64 `json:"lossPercent"`
}

// LossCurve is an ordered sequence of samples, ascending by PercentChange.
type LossCurve []LossSample

type curveConfig struct {
	lowerBound int
	step       int
}

// CurveOption customises SampleLossCurve.
type CurveOption func(*curveConfig)

// WithLowerBound sets the first sampled percent change. It must be greater than -100.
func WithLowerBound(lowerBound int) CurveOption {
	return func(c *curveConfig) {
		c.lowerBound = lowerBound
	}
}

// WithStep sets the distance between consecutive samples.
func WithStep(step int) CurveOption {
	return func(c *curveConfig) {
		c.step = step
	}
}

// SampleLossCurve samples ComputeLoss from the lower bound (default -90) to
// maxPercentChange inclusive. Invalid domains fail before any sample is produced.
func SampleLossCurve(maxPercentChange int, opts ...CurveOption) (LossCurve, error) {
	cfg := curveConfig{
		lowerBound: DefaultLowerBound,
		step:       DefaultStep,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.step <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidStep, cfg.step)
	}
	if cfg.lowerBound <= -100 {
		return nil, fmt.Errorf("%w: lower bound %d%% drives the price ratio to zero or below",
			ErrInvalidDomain, cfg.lowerBound)
	}
	if maxPercentChange < cfg.lowerBound {
		return nil, fmt.Errorf("%w: upper bound %d%% is below lower bound %d%%",
			ErrInvalidDomain, maxPercentChange, cfg.lowerBound)
	}

	n, err := SampleCount(maxPercentChange, cfg.lowerBound, cfg.step)
	if err != nil {
		return nil, err
	}

	curve := make(LossCurve, 0, n)
	for i := 0; i < n; i++ {
		pct := cfg.lowerBound + i*cfg.step
		ratio := RatioForPercent(float64(pct))
		loss, err := ComputeLoss(ratio)
		if err != nil {
			return nil, fmt.Errorf("sample %d%%: %w", pct, err)
		}
		curve = append(curve, LossSample{
			PercentChange: pct,
			Ratio:         ratio,
			LossPercent:   roundLoss(loss * 100),
		})
	}

	return curve, nil
}

// SampleCount returns how many samples lowerBound..maxPercentChange holds at
// step, or ErrInvalidDomain when that exceeds MaxSamples. It expects
// step > 0 and maxPercentChange >= lowerBound.
func SampleCount(maxPercentChange, lowerBound, step int) (int, error) {
	if step <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidStep, step)
	}
	if maxPercentChange < lowerBound {
		return 0, fmt.Errorf("%w: upper bound %d%% is below lower bound %d%%",
			ErrInvalidDomain, maxPercentChange, lowerBound)
	}
	// Unsigned subtraction stays exact for any max >= lower.
	gaps := (uint64(maxPercentChange) - uint64(lowerBound)) / uint64(step)
	if gaps >= MaxSamples {
		return 0, fmt.Errorf("%w: %d%%..%d%% at step %d needs more than %d samples",
			ErrInvalidDomain, lowerBound, maxPercentChange, step, MaxSamples)
	}
	return int(gaps) + 1, nil
}

func roundLoss(v float64) float64 {
	return decimal.NewFromFloat(v).Round(LossPrecision).InexactFloat64()
}

// Max returns the largest LossPercent in the curve, or 0 for an empty curve.
func (c LossCurve) Max() float64 {
	var max float64
	for _, s := range c {
		if s.LossPercent > max {
			max = s.LossPercent
		}
	}
	return max
}

// Within returns the samples whose PercentChange falls inside the overlay, inclusive.
func (c LossCurve) Within(o Overlay) LossCurve {
	var out LossCurve
	for _, s := range c {
		if o.Contains(s.PercentChange) {
			out = append(out, s)
		}
	}
	return out
}

// At returns the sample for an exact percent change.
func (c LossCurve) At(percentChange int) (LossSample, bool) {
	for _, s := range c {
		if s.PercentChange == percentChange {
			return s, true
		}
	}
	return LossSample{}, false
}
