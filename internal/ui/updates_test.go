package ui

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
)

func TestBusSender_DropsNoticesWhenFull(t *testing.T) {
	ch := make(chan tea.Msg, 10)
	sender := NewBusSender(ch, zap.NewNop())
	defer sender.Close()

	for i := 0; i < 110; i++ {
		sender.Send(SuccessMsg{Message: "test"})
	}

	sent, dropped := sender.Stats()
	assert.Equal(t, uint64(10), sent)
	assert.Equal(t, uint64(100), dropped)
	assert.Equal(t, "ui.SuccessMsg", sender.lastDropped.Load())
}

func TestBusSender_ActionWaitsForRoom(t *testing.T) {
	ch := make(chan tea.Msg, 1)
	sender := NewBusSender(ch, zap.NewNop())
	sender.actionWait = time.Second
	defer sender.Close()

	sender.Send(SuccessMsg{Message: "filler"})
	go func() {
		time.Sleep(20 * time.Millisecond)
		<-ch
	}()

	sender.Send(ActionMsg{Action: state.PoolsRequested{}})

	sent, dropped := sender.Stats()
	assert.Equal(t, uint64(2), sent)
	assert.Zero(t, dropped)
	assert.Equal(t, ActionMsg{Action: state.PoolsRequested{}}, <-ch)
}

func TestBusSender_ActionDroppedAfterWait(t *testing.T) {
	ch := make(chan tea.Msg, 1)
	sender := NewBusSender(ch, zap.NewNop())
	sender.actionWait = 10 * time.Millisecond
	defer sender.Close()

	sender.Send(SuccessMsg{Message: "filler"})
	sender.Send(ActionMsg{Action: state.PoolsRequested{}})

	_, dropped := sender.Stats()
	assert.Equal(t, uint64(1), dropped)
	assert.Equal(t, "state.PoolsRequested", sender.lastDropped.Load())
}

func TestBusSender_Concurrent(t *testing.T) {
	ch := make(chan tea.Msg, 100)
	sender := NewBusSender(ch, zap.NewNop())
	defer sender.Close()

	var wg sync.WaitGroup
	const goroutines, perGoroutine = 10, 100

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				sender.Send(SuccessMsg{Message: fmt.Sprintf("%d-%d", id, j)})
			}
		}(i)
	}
	wg.Wait()

	sent, dropped := sender.Stats()
	assert.Equal(t, uint64(goroutines*perGoroutine), sent+dropped)
	assert.Equal(t, uint64(100), sent)
}

func TestPublishThroughGlobalBus(t *testing.T) {
	ch := make(chan tea.Msg, 4)
	InitBus(ch, zap.NewNop())
	defer func() {
		GlobalBus.Close()
		GlobalBus = nil
	}()

	PublishAction(state.PoolsRequested{})
	PublishError(errors.New("boom"), "Pools")
	PublishSuccess("done", "Open")

	require.Len(t, ch, 3)
	assert.Equal(t, ActionMsg{Action: state.PoolsRequested{}}, <-ch)
	errMsg := (<-ch).(ErrorMsg)
	assert.Equal(t, "Pools", errMsg.Title)
	assert.Equal(t, SuccessMsg{Message: "done", Title: "Open"}, <-ch)

	sent, dropped := GlobalBus.Stats()
	assert.Equal(t, uint64(3), sent)
	assert.Zero(t, dropped)
}

func TestDispatchAndNavigate(t *testing.T) {
	assert.Equal(t, ActionMsg{Action: state.NoticeCleared{}}, Dispatch(state.NoticeCleared{})())
	assert.Equal(t, RouterMsg{To: RoutePools}, Navigate(RoutePools)())
	assert.Equal(t, "create_position", RouteCreatePosition.String())
	assert.Equal(t, "unknown", Route(99).String())
}
