package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var globalLogger *slog.Logger

// InitLogger sets up a text slog handler on stderr at the given level,
// matched case-insensitively. stdout is left to command output.
func InitLogger(level string) error {
	var slogLevel slog.Level

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q, want debug, info, warn or error", level)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	return nil
}

// GetLogger returns the initialized logger, or slog.Default() before
// InitLogger has been called.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}
