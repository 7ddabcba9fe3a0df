// =============================
// File: internal/dlmm/errors.go
// =============================
package dlmm

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/dlmm-lp/internal/blockchain/solbc"
)

var (
	ErrInvalidBinRange = errors.New("invalid bin range")
	ErrWalletRequired  = errors.New("wallet not connected")
	ErrPoolNotFound    = errors.New("pool not found")
	ErrInvalidAccount  = errors.New("invalid account data")
)

// Transaction stages reported by TxError.
const (
	StageBuild   = "build"
	StageSign    = "sign"
	StageSend    = "send"
	StageConfirm = "confirm"
)

// TxError describes a failed position transaction.
type TxError struct {
	Stage     string
	Signature solana.Signature
	Program   *solbc.AnchorError
	// Transient marks failed RPC reads that may succeed on a rebuild.
	Transient bool
	Err       error
}

func (e *TxError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Stage)
	if e.Signature != (solana.Signature{}) {
		msg += fmt.Sprintf(" (signature %s)", e.Signature)
	}
	if e.Program != nil {
		return fmt.Sprintf("%s: program error %s: %v", msg, e.Program, e.Err)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}
