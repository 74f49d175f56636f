package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeexp/internal/config"
)

func readLogLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.FileExists(t, logFile, "log directory should be created")

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	entries := readLogLines(t, logFile)
	require.Len(t, entries, 1)
	assert.Equal(t, "test message", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Contains(t, entries[0], "source")
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	dir := t.TempDir()
	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "file", FilePath: filepath.Join(dir, "a.log")})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Format: "json", Output: "file", FilePath: filepath.Join(dir, "b.log")})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, GetLogger())
	assert.NoFileExists(t, filepath.Join(dir, "b.log"))
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)

	ctx := WithTraceID(context.Background(), "test-trace-123")
	logger.InfoContext(ctx, "with trace")
	logger.Info("without trace")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var withTrace, withoutTrace map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &withTrace))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &withoutTrace))

	assert.Equal(t, "test-trace-123", withTrace["trace_id"])
	assert.NotContains(t, withoutTrace, "trace_id")
}

func TestTraceIDSurvivesWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	logger = WithComponent(logger, "loader").WithGroup("stats")

	logger.InfoContext(WithTraceID(context.Background(), "abc"), "grouped", "rows", 3)

	assert.Contains(t, buf.String(), `"component":"loader"`)
	assert.Contains(t, buf.String(), `"trace_id":"abc"`)
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		logDebug bool
		logInfo  bool
		logWarn  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"warning", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(config.LoggingConfig{Level: tt.level, Format: "json"}, &buf)

			logger.Debug("debug line")
			logger.Info("info line")
			logger.Warn("warn line")
			logger.Error("error line")

			out := buf.String()
			assert.Equal(t, tt.logDebug, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.logInfo, strings.Contains(out, "info line"))
			assert.Equal(t, tt.logWarn, strings.Contains(out, "warn line"))
			assert.Contains(t, out, "error line")
		})
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.Info("plain", "region", "PT")

	out := buf.String()
	assert.Contains(t, out, "msg=plain")
	assert.Contains(t, out, "region=PT")
	assert.False(t, strings.HasPrefix(out, "{"))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetTraceID(nil)) //nolint:staticcheck

	ctx = EnsureTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)), "existing trace ID is kept")
	assert.NotEqual(t, id, GetTraceID(ContextWithTraceID(ctx)))
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	assert.Same(t, logger, WithError(logger, nil))

	WithError(logger, os.ErrNotExist).Error("failed")
	assert.Contains(t, buf.String(), `"error":"file does not exist"`)
}
