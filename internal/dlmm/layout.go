// =============================
// File: internal/dlmm/layout.go
// =============================
package dlmm

import (
	"bytes"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// MaxBinsPerPosition is the width of a position's liquidity share array.
const MaxBinsPerPosition = 64

// staticFeeParameters mirrors the pair's fee configuration.
type staticFeeParameters struct {
	BaseFactor               uint16
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	VariableFeeControl       uint32
	MaxVolatilityAccumulator uint32
	ProtocolShare            uint16
	Space                    [2]uint8
}

// pairAccount is the leading part of the on-chain Pair account. Fields after
// the active id (dynamic fees, protocol fees, hook) are not read.
type pairAccount struct {
	Discriminator       [8]byte
	Bump                [1]uint8
	LiquidityBookConfig solana.PublicKey
	BinStep             uint8
	BinStepSeed         [1]uint8
	TokenMintX          solana.PublicKey
	TokenMintY          solana.PublicKey
	StaticFeeParameters staticFeeParameters
	ActiveID            uint32
}

// positionAccount is the on-chain Position account.
type positionAccount struct {
	Discriminator   [8]byte
	Pair            solana.PublicKey
	PositionMint    solana.PublicKey
	LiquidityShares [MaxBinsPerPosition][16]byte
	LowerBinID      int32
	UpperBinID      int32
	Space           [8]uint8
}

func decodeAccount(data []byte, want [8]byte, dst interface{}, kind string) error {
	if len(data) < 8 {
		return fmt.Errorf("%w: %s data too short (%d bytes)", ErrInvalidAccount, kind, len(data))
	}
	if !bytes.Equal(data[:8], want[:]) {
		return fmt.Errorf("%w: not a %s account", ErrInvalidAccount, kind)
	}
	if err := bin.NewBorshDecoder(data).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidAccount, kind, err)
	}
	return nil
}

func decodePair(data []byte) (*pairAccount, error) {
	var p pairAccount
	if err := decodeAccount(data, pairDiscriminator, &p, "pair"); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodePosition(data []byte) (*positionAccount, error) {
	var p positionAccount
	if err := decodeAccount(data, positionDiscriminator, &p, "position"); err != nil {
		return nil, err
	}
	if p.LowerBinID > p.UpperBinID {
		return nil, fmt.Errorf("%w: position bins %d > %d", ErrInvalidAccount, p.LowerBinID, p.UpperBinID)
	}
	return &p, nil
}

// TotalLiquidity sums the per-bin liquidity shares.
func (p *positionAccount) TotalLiquidity() decimal.Decimal {
	total := new(big.Int)
	for _, share := range p.LiquidityShares {
		total.Add(total, u128ToBig(share))
	}
	return decimal.NewFromBigInt(total, 0)
}

// u128ToBig converts a little-endian u128.
func u128ToBig(le [16]byte) *big.Int {
	be := make([]byte, 16)
	for i := range le {
		be[15-i] = le[i]
	}
	return new(big.Int).SetBytes(be)
}

// encodeBorsh serialises v with the Borsh encoder.
func encodeBorsh(v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
