// internal/logger/pretty.go
package logger

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelColors are ANSI color numbers; levels not listed print uncolored.
var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel: "6",
	zapcore.InfoLevel:  "2",
	zapcore.WarnLevel:  "3",
	zapcore.ErrorLevel: "1",
	zapcore.FatalLevel: "1",
}

// levelEncoder renders "[LEVEL]", colored only when w is a color terminal.
func levelEncoder(w io.Writer) zapcore.LevelEncoder {
	r := lipgloss.NewRenderer(w)
	styles := make(map[zapcore.Level]lipgloss.Style, len(levelColors))
	for lvl, color := range levelColors {
		s := r.NewStyle().Foreground(lipgloss.Color(color))
		if lvl >= zapcore.FatalLevel {
			s = s.Bold(true)
		}
		styles[lvl] = s
	}

	return func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		label := "[" + lvl.CapitalString() + "]"
		if s, ok := styles[lvl]; ok {
			label = s.Render(label)
		}
		enc.AppendString(label)
	}
}

func clockEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

func level(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// newPrettyLogger writes to out; term is the writer checked for color support.
func newPrettyLogger(out zapcore.WriteSyncer, term io.Writer, debug bool) *zap.Logger {
	cfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    levelEncoder(term),
		EncodeTime:     clockEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), out, level(debug))
	return zap.New(core)
}

// CreatePrettyLogger creates a console logger for the CLI commands.
// Output goes to stderr so command results on stdout stay pipeable.
func CreatePrettyLogger(debug bool) (*zap.Logger, error) {
	return newPrettyLogger(zapcore.Lock(os.Stderr), os.Stderr, debug), nil
}

// CreateTUILoggerWithBuffer creates a logger that writes JSON lines into
// buffer only, so nothing reaches the terminal while the UI owns it.
func CreateTUILoggerWithBuffer(debug bool, buffer *LogBuffer) (*zap.Logger, error) {
	if buffer == nil {
		return nil, errors.New("buffer is required for TUI logger")
	}

	cfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(buffer), level(debug))
	return zap.New(core), nil
}

// ShortenAddress renders a base58 address as "abcd...wxyz".
func ShortenAddress(addr string) string {
	if len(addr) > 8 {
		return addr[:4] + "..." + addr[len(addr)-4:]
	}
	return addr
}

// ShortenSignature renders a transaction signature as its first and last 8 characters.
func ShortenSignature(sig string) string {
	if len(sig) > 16 {
		return sig[:8] + "..." + sig[len(sig)-8:]
	}
	return sig
}
