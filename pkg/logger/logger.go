package logger

import (
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

// NewHandler creates the slog handler used process-wide. Level and format
// come from config; nil opts fall back to the configured level.
func NewHandler(opts *slog.HandlerOptions) slog.Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: parseLevel(viper.GetString("logger.level"))}
	}

	if viper.GetString("logger.format") == "json" {
		return slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.NewTextHandler(os.Stdout, opts)
}

func parseLevel(level string) slog.Level {
	switch level {
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
