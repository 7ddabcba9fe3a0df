// Package impermanent estimates the impermanent loss of a balanced two-asset
// liquidity position and samples it into chart-ready curves.
package impermanent

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRatio is returned for price ratios that are not finite and positive.
	ErrInvalidRatio = errors.New("price ratio must be a finite positive number")

	// ErrInvalidDomain is returned when a curve domain would produce a non-positive ratio
	// or is empty.
	ErrInvalidDomain = errors.New("invalid curve domain")

	// ErrInvalidStep is returned for non-positive sampling steps.
	ErrInvalidStep = errors.New("curve step must be positive")
)

// ComputeLoss returns the fractional value loss of a 50/50 constant-product position
// against holding, for ratio = current_price / entry_price:
//
//	loss = 1 - 2*sqrt(r) / (1 + r)
//
// The result lies in [0, 1); it is 0 at r = 1 and invariant under r -> 1/r.
func ComputeLoss(ratio float64) (float64, error) {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidRatio, ratio)
	}
	loss := 1 - (2*math.Sqrt(ratio))/(1+ratio)
	// Float rounding: r = 1 can land a hair below zero, and extreme ratios saturate to 1.
	switch {
	case loss < 0:
		loss = 0
	case loss >= 1:
		loss = math.Nextafter(1, 0)
	}
	return loss, nil
}

// RatioForPercent converts a signed percentage price move into a price ratio.
func RatioForPercent(percentChange float64) float64 {
	return (100 + percentChange) / 100
}
