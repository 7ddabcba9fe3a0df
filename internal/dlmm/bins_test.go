package dlmm

import (
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBinRange(t *testing.T) {
	tests := []struct {
		name        string
		left, right int
		wantErr     bool
	}{
		{"default range", -5, 5, false},
		{"one side", 0, 10, false},
		{"equal", 3, 3, true},
		{"inverted", 5, -5, true},
		{"too wide", -40, 40, true},
		{"max width", 0, MaxBinsPerPosition - 1, false},
		{"int extremes", math.MinInt, math.MaxInt, true},
		{"beyond int32", math.MaxInt32, math.MaxInt32 + 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBinRange(tt.left, tt.right)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBinRange)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseBinRange(t *testing.T) {
	left, right, err := ParseBinRange(" -5", "5 ")
	require.NoError(t, err)
	assert.Equal(t, -5, left)
	assert.Equal(t, 5, right)

	_, _, err = ParseBinRange("a", "5")
	assert.ErrorIs(t, err, ErrInvalidBinRange)

	_, _, err = ParseBinRange("1.5", "5")
	assert.ErrorIs(t, err, ErrInvalidBinRange)

	_, _, err = ParseBinRange("5", "1")
	assert.ErrorIs(t, err, ErrInvalidBinRange)
}

func TestPriceFromBinID(t *testing.T) {
	price, ok := PriceFromBinID(BinIDOffset, 10, 6, 6)
	require.True(t, ok)
	assert.Equal(t, "1", price.String())

	price, ok = PriceFromBinID(BinIDOffset+1, 100, 6, 6)
	require.True(t, ok)
	assert.InDelta(t, 1.01, price.InexactFloat64(), 1e-12)

	// SOL (9) priced in USDC (6)
	price, ok = PriceFromBinID(BinIDOffset, 10, 9, 6)
	require.True(t, ok)
	assert.InDelta(t, 1000.0, price.InexactFloat64(), 1e-9)

	_, ok = PriceFromBinID(0, 255, 0, 0)
	assert.False(t, ok)
}

func TestBinArrayIndex(t *testing.T) {
	assert.Equal(t, int32(0), BinArrayIndex(0))
	assert.Equal(t, int32(0), BinArrayIndex(255))
	assert.Equal(t, int32(1), BinArrayIndex(256))
	assert.Equal(t, int32(-1), BinArrayIndex(-1))
	assert.Equal(t, int32(-1), BinArrayIndex(-256))
	assert.Equal(t, int32(-2), BinArrayIndex(-257))
}

func TestDerivedAddresses(t *testing.T) {
	mintA, mintB := newKey(), newKey()

	a1, err := DerivePositionAddress(mintA, testProgram)
	require.NoError(t, err)
	a2, err := DerivePositionAddress(mintA, testProgram)
	require.NoError(t, err)
	b, err := DerivePositionAddress(mintB, testProgram)
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)

	pair := newKey()
	lo, err := DeriveBinArrayAddress(pair, 0, testProgram)
	require.NoError(t, err)
	hi, err := DeriveBinArrayAddress(pair, 1, testProgram)
	require.NoError(t, err)
	assert.NotEqual(t, lo, hi)
}

func TestNewCreatePositionParams(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	pool := Pool{Address: solana.NewWallet().PublicKey(), ActiveID: 8388608}

	params := NewCreatePositionParams(payer, pool, -5, 5)
	assert.Equal(t, payer, params.Payer)
	assert.Equal(t, pool.Address, params.Pair)
	assert.Equal(t, int32(-5), params.RelativeBinIDLeft)
	assert.Equal(t, int32(5), params.RelativeBinIDRight)
	assert.Equal(t, BinArrayIndex(8388603), params.BinArrayIndex)
}
