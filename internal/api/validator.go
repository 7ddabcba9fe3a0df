package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
	"github.com/rovshanmuradov/dlmm-lp/internal/impermanent"
)

// maxPoolLimit caps ?limit= on /pools.
const maxPoolLimit = 100

// Validator turns query strings into typed requests
type Validator struct {
	defaultLimit  int
	defaultChange int
}

// NewValidator creates a validator with the given defaults.
func NewValidator(opts Options) *Validator {
	v := &Validator{
		defaultLimit:  opts.PoolLimit,
		defaultChange: opts.ChartChangePercent,
	}
	if v.defaultLimit <= 0 {
		v.defaultLimit = dlmm.DefaultPoolLimit
	}
	if v.defaultChange == 0 {
		v.defaultChange = 50
	}
	return v
}

// CurveRequest is a validated /il/curve query.
type CurveRequest struct {
	MaxPercentChange int
	LowerBound       int
	Step             int
	Overlay          *impermanent.Overlay
}

// PoolsRequest is a validated /pools query.
type PoolsRequest struct {
	Limit int
	Query string
	Sort  dlmm.SortKey
}

// ValidateCurveRequest parses max, lower, step and the optional bin_lower/bin_upper pair.
// Bin bounds are relative to the active bin.
func (v *Validator) ValidateCurveRequest(maxChange, lower, step, binLower, binUpper string) (CurveRequest, error) {
	req := CurveRequest{
		MaxPercentChange: v.defaultChange,
		LowerBound:       impermanent.DefaultLowerBound,
		Step:             impermanent.DefaultStep,
	}

	var err error
	if req.MaxPercentChange, err = intParam("max", maxChange, req.MaxPercentChange); err != nil {
		return CurveRequest{}, err
	}
	if req.LowerBound, err = intParam("lower", lower, req.LowerBound); err != nil {
		return CurveRequest{}, err
	}
	if req.Step, err = intParam("step", step, req.Step); err != nil {
		return CurveRequest{}, err
	}
	if _, err := impermanent.SampleCount(req.MaxPercentChange, req.LowerBound, req.Step); err != nil {
		return CurveRequest{}, err
	}

	binLower, binUpper = strings.TrimSpace(binLower), strings.TrimSpace(binUpper)
	switch {
	case binLower == "" && binUpper == "":
	case binLower == "" || binUpper == "":
		return CurveRequest{}, fmt.Errorf("bin_lower and bin_upper must be given together")
	default:
		lo, hi, err := dlmm.ParseBinRange(binLower, binUpper)
		if err != nil {
			return CurveRequest{}, err
		}
		overlay := impermanent.OverlayForBins(lo, hi, 0)
		req.Overlay = &overlay
	}
	return req, nil
}

// ValidatePoolsRequest parses limit, q and sort.
func (v *Validator) ValidatePoolsRequest(limit, query, sortKey string) (PoolsRequest, error) {
	n, err := intParam("limit", limit, v.defaultLimit)
	if err != nil {
		return PoolsRequest{}, err
	}
	if n <= 0 || n > maxPoolLimit {
		return PoolsRequest{}, fmt.Errorf("limit must be between 1 and %d", maxPoolLimit)
	}
	key, ok := dlmm.ParseSortKey(sortKey)
	if !ok {
		return PoolsRequest{}, fmt.Errorf("sort must be one of none, liquidity, price")
	}
	return PoolsRequest{Limit: n, Query: strings.TrimSpace(query), Sort: key}, nil
}

// ValidatePublicKey parses a base58 address named by field.
func (v *Validator) ValidatePublicKey(field, value string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(value))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s is not a valid address", field)
	}
	return key, nil
}

func intParam(name, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
