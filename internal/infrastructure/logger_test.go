package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strykerscli/internal/config"
)

func TestNewLogger_ConsoleJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Output: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug("loaded", slog.Int("rows", 3))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.EqualValues(t, 3, entry["rows"])
}

func TestNewLogger_BothWritesFile(t *testing.T) {
	t.Cleanup(func() { _ = CloseLogFile() })

	logFile := filepath.Join(t.TempDir(), "nested", "app.log")
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: logFile}, &buf)
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "trace-123")
	logger.InfoContext(ctx, "with trace")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trace-123", entry["trace_id"])
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)))
}

func TestRunIDContext(t *testing.T) {
	assert.Empty(t, GetRunID(context.Background()))
	assert.Equal(t, context.Background(), WithRunID(context.Background(), ""))

	ctx := WithRunID(context.Background(), "run-42")
	assert.Equal(t, "run-42", GetRunID(ctx))

	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info"}, &buf)
	require.NoError(t, err)
	logger.InfoContext(ctx, "step done")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-42", entry["run_id"])
}

func TestInitializeLogger_Once(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, first, GetLogger())
}
