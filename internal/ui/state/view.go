// Package state holds the terminal client's view state. View is an
// immutable snapshot and Reduce is the only way to derive the next one.
package state

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
)

// FetchStatus tracks one remote collection.
type FetchStatus int

const (
	FetchIdle FetchStatus = iota
	FetchLoading
	FetchReady
	FetchFailed
)

func (s FetchStatus) String() string {
	switch s {
	case FetchLoading:
		return "loading"
	case FetchReady:
		return "ready"
	case FetchFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Default relative bin bounds of the create-position form.
const (
	DefaultLeftBin  = "-5"
	DefaultRightBin = "5"
)

// WalletRef identifies the connected wallet. Keys stay in the wallet store.
type WalletRef struct {
	Name    string
	Address solana.PublicKey
}

// FormValues is the raw create-position input.
type FormValues struct {
	Left  string
	Right string
}

// DefaultForm returns the form with the default -5..5 range.
func DefaultForm() FormValues {
	return FormValues{Left: DefaultLeftBin, Right: DefaultRightBin}
}

type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeError
	NoticeSuccess
)

// Notice is the last error or success shown in the status line.
type Notice struct {
	Kind NoticeKind
	Text string
}

// View is a snapshot of everything the screens render.
type View struct {
	Wallet *WalletRef

	Pools        []dlmm.Pool
	PoolsStatus  FetchStatus
	PoolsUpdated time.Time
	PoolQuery    string
	PoolSort     dlmm.SortKey
	SelectedPool *dlmm.Pool

	Form          FormValues
	Submitting    bool
	LastSignature string

	Positions        []dlmm.Position
	PositionsStatus  FetchStatus
	PositionsUpdated time.Time
	SelectedPosition int

	Notice Notice
}

// Initial returns the state the client starts in.
func Initial() View {
	return View{Form: DefaultForm()}
}

// Connected reports whether a wallet has been selected.
func (v View) Connected() bool {
	return v.Wallet != nil
}

// VisiblePools applies the search query and sort key.
func (v View) VisiblePools() []dlmm.Pool {
	return dlmm.SortPools(dlmm.FilterPools(v.Pools, v.PoolQuery), v.PoolSort)
}

// CurrentPosition returns the selected position, if any.
func (v View) CurrentPosition() (dlmm.Position, bool) {
	if v.SelectedPosition < 0 || v.SelectedPosition >= len(v.Positions) {
		return dlmm.Position{}, false
	}
	return v.Positions[v.SelectedPosition], true
}
