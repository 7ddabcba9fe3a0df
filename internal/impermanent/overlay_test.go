package impermanent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinRangeToPercentBounds(t *testing.T) {
	low, high := BinRangeToPercentBounds(-5, 5, 0)
	assert.Equal(t, -5, low)
	assert.Equal(t, 5, high)

	low, high = BinRangeToPercentBounds(10, 30, 20)
	assert.Equal(t, -10, low)
	assert.Equal(t, 10, high)
}

func TestOverlayForBins_OrdersBounds(t *testing.T) {
	o := OverlayForBins(5, -5, 0)
	assert.Equal(t, Overlay{Low: -5, High: 5}, o)
	assert.True(t, o.Contains(0))
	assert.True(t, o.Contains(5))
	assert.False(t, o.Contains(6))
}
