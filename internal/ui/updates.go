package ui

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const (
	defaultActionWait = 250 * time.Millisecond
	busStatsInterval  = 30 * time.Second
)

// BusSender feeds the UI from background goroutines. Notices are dropped
// at once when the channel is full; actions wait up to actionWait first.
type BusSender struct {
	ch         chan tea.Msg
	logger     *zap.Logger
	actionWait time.Duration

	sent        atomic.Uint64
	dropped     atomic.Uint64
	lastDropped atomic.Value // string

	stop     chan struct{}
	stopOnce sync.Once
}

// GlobalBus is nil until InitBus is called; Publish then writes to Bus directly.
var GlobalBus *BusSender

// InitBus routes the Publish helpers through a counting sender on ch.
func InitBus(ch chan tea.Msg, logger *zap.Logger) {
	GlobalBus = NewBusSender(ch, logger)
}

func NewBusSender(ch chan tea.Msg, logger *zap.Logger) *BusSender {
	s := &BusSender{
		ch:         ch,
		logger:     logger,
		actionWait: defaultActionWait,
		stop:       make(chan struct{}),
	}
	go s.reportDrops(busStatsInterval)
	return s
}

func (s *BusSender) Send(msg tea.Msg) {
	select {
	case s.ch <- msg:
		s.sent.Add(1)
		return
	default:
	}

	if _, ok := msg.(ActionMsg); ok {
		timer := time.NewTimer(s.actionWait)
		defer timer.Stop()
		select {
		case s.ch <- msg:
			s.sent.Add(1)
			return
		case <-timer.C:
		case <-s.stop:
		}
	}

	s.dropped.Add(1)
	s.lastDropped.Store(describe(msg))
}

// Stats returns how many messages were delivered and dropped so far.
func (s *BusSender) Stats() (sent, dropped uint64) {
	return s.sent.Load(), s.dropped.Load()
}

func (s *BusSender) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *BusSender) reportDrops(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var reported uint64
	for {
		select {
		case <-ticker.C:
			sent, dropped := s.Stats()
			if dropped == reported {
				continue
			}
			last, _ := s.lastDropped.Load().(string)
			s.logger.Warn("UI bus dropped messages",
				zap.Uint64("sent", sent),
				zap.Uint64("dropped", dropped-reported),
				zap.String("last", last))
			reported = dropped
		case <-s.stop:
			return
		}
	}
}

func describe(msg tea.Msg) string {
	if a, ok := msg.(ActionMsg); ok {
		return fmt.Sprintf("%T", a.Action)
	}
	return fmt.Sprintf("%T", msg)
}
