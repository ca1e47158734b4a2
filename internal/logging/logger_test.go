package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" trace ": LevelTrace,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug", &buf)

	logger.Log(context.Background(), LevelTrace, "hidden")
	logger.Debug("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNewLoggerLabelsTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)

	logger.Log(context.Background(), LevelTrace, "pair statistics", "distinct_pairs", 3)
	assert.Contains(t, buf.String(), "level=TRACE")
	assert.Contains(t, buf.String(), "distinct_pairs=3")
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("nonsense", &buf)

	logger.Debug("quiet")
	logger.Info("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trace.jsonl")
	tf, err := OpenTraceFile(path)
	require.NoError(t, err)

	tf.Logger.Debug("merge", "rank", 0, "symbol", "aa")
	tf.Logger.Debug("merge", "rank", 1, "symbol", "aab")
	tf.Logger.Log(context.Background(), LevelTrace, "dropped")
	require.NoError(t, tf.Close())
	require.NoError(t, tf.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "merge", rec["msg"])
	assert.Equal(t, "aab", rec["symbol"])
	assert.EqualValues(t, 1, rec["rank"])
}

func TestTraceFileNilClose(t *testing.T) {
	var tf *TraceFile
	assert.NoError(t, tf.Close())
}
