// Package logging builds the structured logger shared by kosh commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Options selects the level and handler of a logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// New creates a logger writing to w and installs it as the slog default.
//
// Unknown levels fall back to info. An unknown format is an error so a typo in
// --log-format does not silently change the output shape.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
		handler = slog.NewTextHandler(w, hopts)
	case "json":
		handler = slog.NewJSONHandler(w, hopts)
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", opts.Format)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
