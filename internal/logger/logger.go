package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/asc-rental-marketplace/internal/config"
)

// NewLogger creates a JSON slog.Logger writing to stdout, tagged with the service name and env
func NewLogger(cfg *config.Config) *slog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(w, opts))
	if cfg.Application.Name != "" {
		logger = logger.With("app", cfg.Application.Name, "env", cfg.Application.Env)
	}

	logger.Info("logger initialized", "level", level)

	return logger
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
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
