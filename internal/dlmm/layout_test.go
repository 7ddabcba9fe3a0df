package dlmm

import (
	"encoding/binary"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePair_FieldOffsets(t *testing.T) {
	mintX, mintY := newKey(), newKey()

	// discriminator(8) bump(1) config(32) bin_step(1) seed(1) mint_x(32) mint_y(32) fees(20) active_id(4)
	data := make([]byte, 8+1+32+1+1+32+32+20+4+100)
	copy(data[:8], pairDiscriminator[:])
	data[41] = 25
	copy(data[43:75], mintX[:])
	copy(data[75:107], mintY[:])
	binary.LittleEndian.PutUint32(data[127:131], BinIDOffset+12)

	pair, err := decodePair(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(25), pair.BinStep)
	assert.Equal(t, mintX, pair.TokenMintX)
	assert.Equal(t, mintY, pair.TokenMintY)
	assert.Equal(t, uint32(BinIDOffset+12), pair.ActiveID)
}

func TestDecodePair_Rejects(t *testing.T) {
	_, err := decodePair([]byte{1, 2})
	assert.ErrorIs(t, err, ErrInvalidAccount)

	wrong := positionData(t, newKey(), newKey(), 0, 1)
	_, err = decodePair(wrong)
	assert.ErrorIs(t, err, ErrInvalidAccount)

	truncated := pairData(t, 1, newKey(), newKey(), 1)[:60]
	_, err = decodePair(truncated)
	assert.ErrorIs(t, err, ErrInvalidAccount)
}

func TestDecodePosition(t *testing.T) {
	pair, mint := newKey(), newKey()
	data := positionData(t, pair, mint, BinIDOffset-3, BinIDOffset+3, 100, 250)
	assert.Len(t, data, 8+32+32+MaxBinsPerPosition*16+4+4+8)

	pos, err := decodePosition(data)
	require.NoError(t, err)
	assert.Equal(t, pair, pos.Pair)
	assert.Equal(t, mint, pos.PositionMint)
	assert.Equal(t, int32(BinIDOffset-3), pos.LowerBinID)
	assert.Equal(t, int32(BinIDOffset+3), pos.UpperBinID)
	assert.True(t, decimal.NewFromInt(350).Equal(pos.TotalLiquidity()))

	inverted := positionData(t, pair, mint, 10, 5)
	_, err = decodePosition(inverted)
	assert.ErrorIs(t, err, ErrInvalidAccount)
}

func TestTotalLiquidity_U128(t *testing.T) {
	var acc positionAccount
	acc.LiquidityShares[0] = bigShare(1, 5)
	acc.LiquidityShares[63] = bigShare(0, 7)

	want := bigFromShare(1, 12)
	assert.Equal(t, want.String(), acc.TotalLiquidity().String())
}

func TestDiscriminators(t *testing.T) {
	// anchor: sha256("account:Pair")[:8]
	assert.Len(t, pairDiscriminator, 8)
	assert.NotEqual(t, pairDiscriminator, positionDiscriminator)
	assert.Equal(t, hashPrefix("global:create_position"), createPositionDiscriminator)
}
