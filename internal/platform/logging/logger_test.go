package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/The-Unpaid-Developers/core-service/internal/platform/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSONIncludesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")

	logger.InfoContext(correlation.WithRunID(context.Background(), "run-9"), "database selected", "database", "solutions")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "database selected", record["msg"])
	assert.Equal(t, "solutions", record["database"])
	assert.Equal(t, "run-9", record["run_id"])
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "text")

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Info("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestInitLogger_SetsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	InitLogger("debug", "text")
	require.NotNil(t, Logger)
	assert.Same(t, Logger, slog.Default())
	assert.True(t, Logger.Enabled(context.Background(), slog.LevelDebug))
}
