package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestBuffer(t *testing.T, size int) (*LogBuffer, string) {
	t.Helper()
	spill := filepath.Join(t.TempDir(), "logs", "tui.log")
	buffer, err := NewLogBuffer(size, spill, zap.NewNop())
	require.NoError(t, err)
	return buffer, spill
}

func TestLogBufferConcurrentAccess(t *testing.T) {
	buffer, _ := newTestBuffer(t, 100)
	defer buffer.Close()

	done := buffer.StartPeriodicFlush(50 * time.Millisecond)
	defer close(done)

	var wg sync.WaitGroup
	numGoroutines := 10
	logsPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				fields := map[string]interface{}{"goroutine": id, "iteration": j}
				assert.NoError(t, buffer.Add("info", fmt.Sprintf("log %d/%d", id, j), fields))
			}
		}(i)
	}

	go func() {
		for i := 0; i < 20; i++ {
			_ = buffer.GetRecentLogs(10)
			time.Sleep(5 * time.Millisecond)
		}
	}()

	wg.Wait()
	require.NoError(t, buffer.Flush())

	total, spilled := buffer.GetStats()
	assert.Equal(t, uint64(numGoroutines*logsPerGoroutine), total)
	assert.Equal(t, total-100, spilled)
	assert.Len(t, buffer.GetRecentLogs(0), 100)
}

func TestLogBuffer_RecentLogsOrder(t *testing.T) {
	buffer, _ := newTestBuffer(t, 3)
	defer buffer.Close()

	for i := 1; i <= 5; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("m%d", i), nil))
	}

	logs := buffer.GetRecentLogs(2)
	require.Len(t, logs, 2)
	assert.Equal(t, "m4", logs[0].Message)
	assert.Equal(t, "m5", logs[1].Message)

	all := buffer.GetRecentLogs(0)
	require.Len(t, all, 3)
	assert.Equal(t, "m3", all[0].Message)
}

func TestLogBuffer_WriteFromZap(t *testing.T) {
	buffer, spill := newTestBuffer(t, 10)

	log, err := CreateTUILoggerWithBuffer(false, buffer)
	require.NoError(t, err)

	log.Named("pools").Info("Pools loaded", zap.Int("count", 3))
	log.Debug("hidden at info level")

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "info", logs[0].Level)
	assert.Equal(t, "Pools loaded", logs[0].Message)
	assert.Equal(t, "pools", logs[0].Logger)
	assert.EqualValues(t, 3, logs[0].Fields["count"])

	require.NoError(t, buffer.Close())
	data, err := os.ReadFile(spill)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "Pools loaded"))
}

func TestLogBuffer_WritePlainText(t *testing.T) {
	buffer, _ := newTestBuffer(t, 4)
	defer buffer.Close()

	n, err := buffer.Write([]byte("plain line\n\nsecond\n"))
	require.NoError(t, err)
	assert.Equal(t, 19, n)

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 2)
	assert.Equal(t, "plain line", logs[0].Message)
	assert.Equal(t, "second", logs[1].Message)
}

func TestCreateTUILoggerWithBuffer_RequiresBuffer(t *testing.T) {
	_, err := CreateTUILoggerWithBuffer(true, nil)
	assert.Error(t, err)
}

func TestShortenHelpers(t *testing.T) {
	assert.Equal(t, "1qbk...kvVE", ShortenAddress("1qbkdrr3z4ryLA7pZykqxvxWPoeifcVKo6ZG9CfkvVE"))
	assert.Equal(t, "short", ShortenAddress("short"))
	assert.Equal(t, "abcdefgh...12345678", ShortenSignature("abcdefghXXXXXXXXXXXX12345678"))
}

func TestPrettyLogger_PlainWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	log := newPrettyLogger(zapcore.AddSync(&buf), &buf, false).Named("pools")

	log.Debug("hidden")
	log.Info("Pools loaded", zap.Int("count", 3))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "pools")
	assert.Contains(t, out, `{"count": 3}`)
	assert.NotContains(t, out, "\x1b[")
}
