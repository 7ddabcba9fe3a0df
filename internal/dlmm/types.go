package dlmm

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Token is one side of a pool.
type Token struct {
	Mint     solana.PublicKey `json:"mint"`
	Symbol   string           `json:"symbol,omitempty"`
	Decimals uint8            `json:"decimals"`
}

// DisplaySymbol returns the symbol, or a shortened mint when it is unknown.
func (t Token) DisplaySymbol() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	s := t.Mint.String()
	if len(s) > 4 {
		return s[:4] + "..."
	}
	return s
}

// Pool is a decoded DLMM pair.
// LiquidityUSD stays nil until a price oracle supplies it.
type Pool struct {
	Address      solana.PublicKey `json:"address"`
	BinStep      uint8            `json:"binStep"`
	ActiveID     int32            `json:"activeId"`
	TokenX       Token            `json:"tokenX"`
	TokenY       Token            `json:"tokenY"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	LiquidityUSD *decimal.Decimal `json:"liquidityUsd,omitempty"`
}

// DisplayName renders "X / Y".
func (p Pool) DisplayName() string {
	return p.TokenX.DisplaySymbol() + " / " + p.TokenY.DisplaySymbol()
}

// Position is a liquidity position owned through a position-mint NFT.
// PoolActiveID is nil when the pool account could not be read.
// The USD fields are oracle gaps and stay nil.
type Position struct {
	Address      solana.PublicKey `json:"address"`
	Pool         solana.PublicKey `json:"pool"`
	Mint         solana.PublicKey `json:"mint"`
	LowerBinID   int32            `json:"lowerBinId"`
	UpperBinID   int32            `json:"upperBinId"`
	PoolActiveID *int32           `json:"poolActiveId,omitempty"`
	Liquidity    decimal.Decimal  `json:"liquidity"`

	ValueUSD *decimal.Decimal `json:"valueUsd,omitempty"`
	PnLUSD   *decimal.Decimal `json:"pnlUsd,omitempty"`
	ILUSD    *decimal.Decimal `json:"ilUsd,omitempty"`
	FeesUSD  *decimal.Decimal `json:"feesUsd,omitempty"`
}

// ActiveBin returns the pool's active bin and whether it is known.
func (p Position) ActiveBin() (int32, bool) {
	if p.PoolActiveID == nil {
		return 0, false
	}
	return *p.PoolActiveID, true
}

// ReferenceBin is the pool's active bin, or the middle of the position
// when the active bin is unknown.
func (p Position) ReferenceBin() int32 {
	if id, ok := p.ActiveBin(); ok {
		return id
	}
	return p.LowerBinID + (p.UpperBinID-p.LowerBinID)/2
}

// RelativeRange returns the bin range relative to ReferenceBin.
func (p Position) RelativeRange() (int, int) {
	ref := p.ReferenceBin()
	return int(p.LowerBinID - ref), int(p.UpperBinID - ref)
}

// InRange reports whether the pool's active bin lies inside the position.
func (p Position) InRange() bool {
	id, ok := p.ActiveBin()
	return ok && id >= p.LowerBinID && id <= p.UpperBinID
}
