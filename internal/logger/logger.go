package logger

import (
	"log/slog"
	"os"
)

// SetupGlobal installs the process-wide slog handler.
func SetupGlobal(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	slog.SetDefault(slog.New(handler))
}
