// Package observability wires structured logging and tracing for heapsim.
// The simulation core takes plain *slog.Logger values; this package only
// builds and configures them.
package observability

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds a logger with the given format ("text" or "json") and
// level name, writing to w. Unknown values fall back to text at info.
func NewLogger(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
