package logger

import (
	"log/slog"
	"os"
	"strings"
)

var root *slog.Logger

// Init configures the process-wide logger. Production gets JSON lines for
// the log shipper; everything else gets human-readable text.
func Init(env, level string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	root = slog.New(handler)
	slog.SetDefault(root)
}

// Default returns the process-wide logger, initializing a development
// logger on first use if Init was never called.
func Default() *slog.Logger {
	if root == nil {
		Init("development", "debug")
	}
	return root
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}
