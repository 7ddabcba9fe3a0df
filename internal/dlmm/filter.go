package dlmm

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SortKey selects the pool list ordering.
type SortKey int

const (
	SortNone SortKey = iota
	SortLiquidity
	SortPrice
)

var sortKeyNames = map[SortKey]string{
	SortNone:      "none",
	SortLiquidity: "liquidity",
	SortPrice:     "price",
}

func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return "none"
}

// Next cycles none -> liquidity -> price -> none.
func (k SortKey) Next() SortKey {
	return (k + 1) % 3
}

// ParseSortKey accepts "", "none", "liquidity" or "price".
func ParseSortKey(s string) (SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, true
	case "liquidity":
		return SortLiquidity, true
	case "price":
		return SortPrice, true
	}
	return SortNone, false
}

// FilterPools keeps pools whose name, address or token symbols contain query,
// case-insensitively. An empty query keeps everything. The input is not modified.
func FilterPools(pools []Pool, query string) []Pool {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Pool, 0, len(pools))
	for _, p := range pools {
		if q == "" || poolMatches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func poolMatches(p Pool, q string) bool {
	fields := []string{
		p.DisplayName(),
		p.Address.String(),
		p.TokenX.Symbol,
		p.TokenY.Symbol,
		p.TokenX.Mint.String(),
		p.TokenY.Mint.String(),
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// SortPools returns a copy ordered by key, descending. Pools without a
// value for the key go last; ties keep their input order.
func SortPools(pools []Pool, key SortKey) []Pool {
	out := make([]Pool, len(pools))
	copy(out, pools)
	if key == SortNone {
		return out
	}

	value := func(p Pool) *decimal.Decimal {
		if key == SortLiquidity {
			return p.LiquidityUSD
		}
		return p.Price
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := value(out[i]), value(out[j])
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.GreaterThan(*b)
		}
	})
	return out
}
