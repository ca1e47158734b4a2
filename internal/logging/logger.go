// Package logging provides leveled logging for bpetrain.
// It offers two outputs:
//   - a leveled text slog.Logger for stderr (operational output)
//   - a JSONL trace file recording every training decision (one merge per line)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LevelTrace is a custom slog level below Debug for per-iteration detail
// such as pair statistics sizes.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a level name to a slog.Level.
// Supported values: "info", "debug", "trace", "warn", "error" (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	// Label the custom trace level
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

// NewLogger creates a leveled text logger writing to w. Unknown level names
// fall back to info.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl, _ := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: replaceLevel,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// TraceFile is a JSONL sink for training decisions. Every record at debug
// level or above is written as one JSON object per line.
type TraceFile struct {
	file   *os.File
	Logger *slog.Logger
}

// OpenTraceFile creates (or truncates) path and returns a trace logger
// writing to it. Parent directories are created as needed.
func OpenTraceFile(path string) (*TraceFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating trace directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: replaceLevel,
	})
	return &TraceFile{file: f, Logger: slog.New(handler)}, nil
}

// Close closes the underlying file. Safe to call on a nil receiver.
func (tf *TraceFile) Close() error {
	if tf == nil || tf.file == nil {
		return nil
	}
	err := tf.file.Close()
	tf.file = nil
	return err
}
