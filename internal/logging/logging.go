package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Setup installs a text slog handler at the given level as the default
// logger and returns it.
func Setup(w io.Writer, level string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelFromString(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// LevelFromString maps a config level name to a slog level. Unknown names
// fall back to info.
func LevelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
