package state

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/dlmm-lp/internal/dlmm"
)

// Action describes one state transition.
type Action interface {
	action()
}

type WalletConnected struct{ Wallet WalletRef }

type PoolsRequested struct{}

type PoolsLoaded struct {
	Pools []dlmm.Pool
	At    time.Time
}

type PoolsFailed struct{ Err error }

type PoolQueryChanged struct{ Query string }

type PoolSortCycled struct{}

// PoolSelected picks the pool for the create-position form and resets it.
type PoolSelected struct{ Pool dlmm.Pool }

type FormChanged struct{ Values FormValues }

type PositionSubmitted struct{}

type PositionOpened struct {
	Signature string
	Position  string
}

type PositionFailed struct{ Err error }

type PositionsRequested struct{}

// PositionsLoaded and PositionsFailed name the wallet they were fetched
// for; results for a wallet that is no longer connected are dropped.
type PositionsLoaded struct {
	Owner     solana.PublicKey
	Positions []dlmm.Position
	At        time.Time
}

type PositionsFailed struct {
	Owner solana.PublicKey
	Err   error
}

type PositionSelected struct{ Index int }

type NoticeCleared struct{}

// NoticePosted shows a message raised outside the reducer, such as a
// background warning published on the UI bus.
type NoticePosted struct{ Notice Notice }

func (WalletConnected) action()    {}
func (PoolsRequested) action()     {}
func (PoolsLoaded) action()        {}
func (PoolsFailed) action()        {}
func (PoolQueryChanged) action()   {}
func (PoolSortCycled) action()     {}
func (PoolSelected) action()       {}
func (FormChanged) action()        {}
func (PositionSubmitted) action()  {}
func (PositionOpened) action()     {}
func (PositionFailed) action()     {}
func (PositionsRequested) action() {}
func (PositionsLoaded) action()    {}
func (PositionsFailed) action()    {}
func (PositionSelected) action()   {}
func (NoticeCleared) action()      {}
func (NoticePosted) action()       {}
