package state

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
)

// Reduce returns the state that follows v after a. v is not modified;
// slices are replaced, never written through.
func Reduce(v View, a Action) View {
	switch a := a.(type) {
	case WalletConnected:
		w := a.Wallet
		v.Wallet = &w
		v.Positions = nil
		v.PositionsStatus = FetchIdle
		v.PositionsUpdated = time.Time{}
		v.SelectedPosition = 0
		v.Notice = Notice{Kind: NoticeSuccess, Text: fmt.Sprintf("Connected %s", w.Name)}

	case PoolsRequested:
		v.PoolsStatus = FetchLoading

	case PoolsLoaded:
		v.Pools = a.Pools
		v.PoolsStatus = FetchReady
		v.PoolsUpdated = a.At

	case PoolsFailed:
		// stale pools stay visible
		v.PoolsStatus = FetchFailed
		v.Notice = errorNotice("Failed to load pools", a.Err)

	case PoolQueryChanged:
		v.PoolQuery = a.Query

	case PoolSortCycled:
		v.PoolSort = v.PoolSort.Next()

	case PoolSelected:
		p := a.Pool
		v.SelectedPool = &p
		v.Form = DefaultForm()
		v.Submitting = false
		v.LastSignature = ""

	case FormChanged:
		v.Form = a.Values

	case PositionSubmitted:
		v.Submitting = true
		v.LastSignature = ""
		v.Notice = Notice{}

	case PositionOpened:
		v.Submitting = false
		v.LastSignature = a.Signature
		v.Notice = Notice{Kind: NoticeSuccess, Text: fmt.Sprintf("Position %s opened", a.Position)}

	case PositionFailed:
		v.Submitting = false
		v.Notice = errorNotice("Failed to open position", a.Err)

	case PositionsRequested:
		v.PositionsStatus = FetchLoading

	case PositionsLoaded:
		if !v.ownedBy(a.Owner) {
			break
		}
		v.Positions = a.Positions
		v.PositionsStatus = FetchReady
		v.PositionsUpdated = a.At
		if v.SelectedPosition >= len(a.Positions) {
			v.SelectedPosition = max(len(a.Positions)-1, 0)
		}

	case PositionsFailed:
		if !v.ownedBy(a.Owner) {
			break
		}
		v.PositionsStatus = FetchFailed
		v.Notice = errorNotice("Failed to load positions", a.Err)

	case PositionSelected:
		if a.Index >= 0 && a.Index < len(v.Positions) {
			v.SelectedPosition = a.Index
		}

	case NoticeCleared:
		v.Notice = Notice{}

	case NoticePosted:
		v.Notice = a.Notice
	}
	return v
}

func (v View) ownedBy(owner solana.PublicKey) bool {
	return v.Wallet != nil && v.Wallet.Address.Equals(owner)
}

func errorNotice(prefix string, err error) Notice {
	if err == nil {
		return Notice{Kind: NoticeError, Text: prefix}
	}
	return Notice{Kind: NoticeError, Text: prefix + ": " + err.Error()}
}
