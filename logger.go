package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a structured JSON slog.Logger on stdout with the given
// level. The source position is added at debug level.
func NewLogger(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug})
	return slog.New(h)
}
