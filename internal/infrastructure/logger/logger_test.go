package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")

	log.Info("dropped")
	log.Warn("zone lookup failed", slog.String("zip", "10001"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "zone lookup failed", line["msg"])
	assert.Equal(t, "10001", line["zip"])
}

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "TEXT").Info("server starting", slog.String("addr", ":8080"))
	assert.Contains(t, buf.String(), `msg="server starting"`)
	assert.Contains(t, buf.String(), "addr=:8080")
}
