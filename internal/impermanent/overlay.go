package impermanent

// PercentPerBin is the flat price move attributed to one bin step by
// BinRangeToPercentBounds.
const PercentPerBin = 1

// Overlay marks a position's range on the percent-change axis of a loss curve.
type Overlay struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Contains reports whether percentChange lies inside the overlay, inclusive.
func (o Overlay) Contains(percentChange int) bool {
	return percentChange >= o.Low && percentChange <= o.High
}

// BinRangeToPercentBounds maps a bin range to percent bounds, treating each bin away
// from referenceBin as a flat 1% move.
//
// This is only a visual approximation. Real DLMM bin prices grow geometrically with the
// pool's bin step and depend on token decimals.
func BinRangeToPercentBounds(binLower, binUpper, referenceBin int) (lowPercent, highPercent int) {
	lowPercent = (binLower - referenceBin) * PercentPerBin
	highPercent = (binUpper - referenceBin) * PercentPerBin
	return lowPercent, highPercent
}

// OverlayForBins is BinRangeToPercentBounds returned as an Overlay, with the bounds
// ordered.
func OverlayForBins(binLower, binUpper, referenceBin int) Overlay {
	low, high := BinRangeToPercentBounds(binLower, binUpper, referenceBin)
	if low > high {
		low, high = high, low
	}
	return Overlay{Low: low, High: high}
}
