package impermanent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLoss_NoMovement(t *testing.T) {
	loss, err := ComputeLoss(1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, loss)
}

func TestComputeLoss_KnownValues(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  float64
	}{
		{"price x4", 4, 0.2},
		{"price x2", 2, 0.0572},
		{"price halved", 0.5, 0.0572},
		{"price x0.25", 0.25, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loss, err := ComputeLoss(tt.ratio)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, loss, 1e-4)
		})
	}
}

func TestComputeLoss_InverseSymmetry(t *testing.T) {
	for _, r := range []float64{1.01, 1.5, 2, 3.7, 10, 250, 1e6} {
		a, err := ComputeLoss(r)
		require.NoError(t, err)
		b, err := ComputeLoss(1 / r)
		require.NoError(t, err)
		assert.InDelta(t, a, b, 1e-12, "ratio %v", r)
	}
}

func TestComputeLoss_Range(t *testing.T) {
	for _, r := range []float64{1e-300, 1e-9, 0.01, 0.3, 0.999, 1, 1.001, 7, 1e9, 1e300, math.MaxFloat64} {
		loss, err := ComputeLoss(r)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, loss, 0.0, "ratio %v", r)
		assert.Less(t, loss, 1.0, "ratio %v", r)
	}
}

func TestComputeLoss_MonotoneAwayFromOne(t *testing.T) {
	prev := 0.0
	for r := 1.0; r <= 20; r += 0.5 {
		loss, err := ComputeLoss(r)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, loss, prev)
		prev = loss
	}
}

func TestComputeLoss_RejectsInvalidRatio(t *testing.T) {
	for _, r := range []float64{0, -1, -0.0001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ComputeLoss(r)
		assert.ErrorIs(t, err, ErrInvalidRatio, "ratio %v", r)
	}
}

func TestRatioForPercent(t *testing.T) {
	assert.Equal(t, 1.0, RatioForPercent(0))
	assert.Equal(t, 0.1, RatioForPercent(-90))
	assert.Equal(t, 2.2, RatioForPercent(120))
}
