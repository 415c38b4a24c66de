// Package logger constructs the slog loggers used across the engine.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Hamza08dev/hybridrag/pkg/telemetry"
)

// New creates a logger writing to w with the given level and format.
// Format is "json" or "text"; anything else falls back to text.
func New(w io.Writer, level, format string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// NewWithTelemetry creates a logger like New and additionally mirrors
// error records into Parquet files under parquetDir. The returned
// handler's Flush should be called on shutdown.
func NewWithTelemetry(w io.Writer, level, format, parquetDir string) (*slog.Logger, *telemetry.ParquetHandler, error) {
	base := New(w, level, format)
	handler, err := telemetry.NewParquetHandler(base.Handler(), parquetDir)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(handler), handler, nil
}

// NewDefaultLogger creates a text logger on stderr at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
