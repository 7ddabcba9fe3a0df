package dlmm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidateBinRange checks a relative bin range for a new position.
func ValidateBinRange(left, right int) error {
	if left >= right {
		return fmt.Errorf("%w: left bin %d must be less than right bin %d", ErrInvalidBinRange, left, right)
	}
	if left < math.MinInt32 || right > math.MaxInt32 {
		return fmt.Errorf("%w: bin ids out of range", ErrInvalidBinRange)
	}
	if right-left+1 > MaxBinsPerPosition {
		return fmt.Errorf("%w: %d bins exceeds the %d-bin position width", ErrInvalidBinRange, right-left+1, MaxBinsPerPosition)
	}
	return nil
}

// ParseBinRange parses form input for a relative bin range.
func ParseBinRange(leftInput, rightInput string) (int, int, error) {
	left, err := strconv.Atoi(strings.TrimSpace(leftInput))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: left bin %q is not an integer", ErrInvalidBinRange, leftInput)
	}
	right, err := strconv.Atoi(strings.TrimSpace(rightInput))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: right bin %q is not an integer", ErrInvalidBinRange, rightInput)
	}
	if err := ValidateBinRange(left, right); err != nil {
		return 0, 0, err
	}
	return left, right, nil
}

// PriceFromBinID converts a bin id to the price of X in Y, adjusted for
// token decimals: (1 + binStep/10000)^(binID - 2^23) * 10^(decX - decY).
func PriceFromBinID(binID int32, binStep uint8, decimalsX, decimalsY uint8) (decimal.Decimal, bool) {
	base := 1 + float64(binStep)/BasisPointMax
	raw := math.Pow(base, float64(int64(binID)-BinIDOffset))
	price := raw * math.Pow10(int(decimalsX)-int(decimalsY))
	if math.IsNaN(price) || math.IsInf(price, 0) || price == 0 {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(price), true
}
