package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/scriptsvc/internal/config/logs"
)

func TestSetupHandlerText(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		emit     func(*slog.Logger)
		wantOut  bool
	}{
		{"trace shows debug", "trace", func(l *slog.Logger) { l.Debug("test message", "key", "value") }, true},
		{"debug shows debug", "DeBuG", func(l *slog.Logger) { l.Debug("test message", "key", "value") }, true},
		{"info hides debug", "info", func(l *slog.Logger) { l.Debug("test message", "key", "value") }, false},
		{"info shows info", "INFO", func(l *slog.Logger) { l.Info("test message", "key", "value") }, true},
		{"warning alias", "warning", func(l *slog.Logger) { l.Warn("test message", "key", "value") }, true},
		{"error hides warn", "error", func(l *slog.Logger) { l.Warn("test message", "key", "value") }, false},
		{"unknown defaults to info", "loud", func(l *slog.Logger) { l.Info("test message", "key", "value") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := SetupHandlerText(tt.logLevel, buf)
			require.NotNil(t, handler)
			tt.emit(slog.New(handler))

			if !tt.wantOut {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), "test message")
			assert.Contains(t, buf.String(), "key")
		})
	}
}

func TestSetupHandlerJSON(t *testing.T) {
	tests := []struct {
		logLevel  string
		wantLevel slog.Level
		wantSrc   bool
	}{
		{"trace", slog.LevelDebug, true},
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"ERROR", slog.LevelError, false},
	}
	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := slog.New(SetupHandlerJSON(tt.logLevel, buf))
			logger.Log(t.Context(), tt.wantLevel, "test message", "key", "value")

			out := buf.String()
			assert.Contains(t, out, `"msg":"test message"`)
			assert.Contains(t, out, `"key":"value"`)
			assert.Contains(t, out, `"level":"`+tt.wantLevel.String()+`"`)
			assert.Equal(t, tt.wantSrc, strings.Contains(out, `"source"`))
		})
	}
}

func TestNewSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.log")
	sink, err := NewSink(logs.Config{Format: logs.FormatJSON, Level: logs.LevelInfo, Output: path}, 16)
	require.NoError(t, err)

	logger := slog.New(sink).WithGroup("worker")
	logger.Info("script started", "run_id", "abc")
	logger.Debug("filtered out")
	require.NoError(t, sink.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"script started"`)
	assert.Contains(t, string(content), `"worker":{"run_id":"abc"}`)
	assert.NotContains(t, string(content), "filtered out")
}

func TestNewSink_InvalidConfig(t *testing.T) {
	_, err := NewSink(logs.Config{Level: "loud"}, 0)
	require.ErrorIs(t, err, logs.ErrInvalidLogLevel)
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	SetupLogger("debug")
	assert.NotSame(t, original, slog.Default())
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
