package main

import (
	"log/slog"
	"os"
)

// setupLogger creates the process-wide logger. Debug mode turns on the
// per-event trace output; everything else logs at info and above.
func setupLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
