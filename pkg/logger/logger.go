package logger

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init configures the process-wide logger. Production gets JSON at info
// level unless level overrides it; everything else gets text at debug.
func Init(env string, level ...string) {
	if env == "production" {
		Setup("json", parseLevel(level, slog.LevelInfo))
		return
	}
	Setup("text", parseLevel(level, slog.LevelDebug))
}

// Setup installs a logger with an explicit format ("json" or "text").
func Setup(format string, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string, fallback slog.Level) slog.Level {
	return parseLevel([]string{level}, fallback)
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}

// L is shorthand for LoggerWrapper.
func L() *slog.Logger {
	return LoggerWrapper()
}

func parseLevel(level []string, fallback slog.Level) slog.Level {
	if len(level) == 0 {
		return fallback
	}
	switch strings.ToLower(level[0]) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return fallback
}
