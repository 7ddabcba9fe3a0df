package ui

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dlmm-lp/internal/ui/state"
)

const (
	defaultMaxRestarts  = 3
	firstRestartDelay   = 500 * time.Millisecond
	maxRestartDelay     = 5 * time.Second
	viewCrashedFallback = "The screen failed to render. Press esc to go back or ctrl+c to quit."
)

// RecoveryHandler runs the program built by createUI and builds a new one
// after a crash, up to maxRestarts times with growing delays. Once Stop is
// called no further program is started.
type RecoveryHandler struct {
	logger      *zap.Logger
	maxRestarts int
	delays      *backoff.ExponentialBackOff
	createUI    func() (tea.Model, []tea.ProgramOption)

	mu       sync.Mutex
	program  *tea.Program
	restarts int
	stopped  bool
}

func NewRecoveryHandler(logger *zap.Logger, createUI func() (tea.Model, []tea.ProgramOption)) *RecoveryHandler {
	delays := backoff.NewExponentialBackOff()
	delays.InitialInterval = firstRestartDelay
	delays.MaxInterval = maxRestartDelay
	return &RecoveryHandler{
		logger:      logger,
		maxRestarts: defaultMaxRestarts,
		delays:      delays,
		createUI:    createUI,
	}
}

// RunWithRecovery blocks until the program exits cleanly, Stop is called or
// the restart budget is spent.
func (rh *RecoveryHandler) RunWithRecovery() error {
	for {
		err := rh.runUI()
		if err == nil || rh.isStopped() {
			return nil
		}

		rh.mu.Lock()
		rh.restarts++
		count := rh.restarts
		rh.mu.Unlock()

		if count > rh.maxRestarts {
			return fmt.Errorf("UI crashed %d times, giving up: %w", count, err)
		}

		delay := rh.delays.NextBackOff()
		rh.logger.Error("UI crashed, restarting",
			zap.Error(err),
			zap.Int("restart", count),
			zap.Duration("delay", delay))
		time.Sleep(delay)
	}
}

func (rh *RecoveryHandler) runUI() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("UI panic: %v", r)
			rh.logger.Error("UI panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
		}
	}()

	model, opts := rh.createUI()
	program := tea.NewProgram(model, opts...)

	rh.mu.Lock()
	if rh.stopped {
		rh.mu.Unlock()
		return nil
	}
	rh.program = program
	rh.mu.Unlock()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}

// Stop quits the running program and prevents restarts.
func (rh *RecoveryHandler) Stop() {
	rh.mu.Lock()
	defer rh.mu.Unlock()

	rh.stopped = true
	if rh.program != nil {
		rh.program.Quit()
		rh.program = nil
	}
}

func (rh *RecoveryHandler) isStopped() bool {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return rh.stopped
}

// GetRestartCount returns the number of restarts so far.
func (rh *RecoveryHandler) GetRestartCount() int {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return rh.restarts
}

// SafeUIWrapper keeps a panicking Init or Update from killing the program.
// The panic is logged and shown as an error notice; the model keeps the
// state it had before the failed call.
type SafeUIWrapper struct {
	model  tea.Model
	logger *zap.Logger
}

func NewSafeUIWrapper(model tea.Model, logger *zap.Logger) *SafeUIWrapper {
	return &SafeUIWrapper{model: model, logger: logger}
}

func (sw *SafeUIWrapper) Init() (cmd tea.Cmd) {
	defer sw.recoverFromPanic("Init", &cmd)
	return sw.model.Init()
}

func (sw *SafeUIWrapper) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	model = sw
	defer sw.recoverFromPanic(fmt.Sprintf("Update(%T)", msg), &cmd)
	next, cmd := sw.model.Update(msg)
	sw.model = next
	return sw, cmd
}

func (sw *SafeUIWrapper) View() (view string) {
	defer func() {
		if r := recover(); r != nil {
			sw.logger.Error("View panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			view = viewCrashedFallback
		}
	}()
	return sw.model.View()
}

func (sw *SafeUIWrapper) recoverFromPanic(method string, cmd *tea.Cmd) {
	r := recover()
	if r == nil {
		return
	}
	sw.logger.Error("UI method panic recovered",
		zap.String("method", method),
		zap.Any("panic", r),
		zap.String("stack", string(debug.Stack())))
	*cmd = Dispatch(state.NoticePosted{Notice: state.Notice{
		Kind: state.NoticeError,
		Text: fmt.Sprintf("internal error in %s: %v", method, r),
	}})
}
