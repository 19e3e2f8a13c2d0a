package logger

import (
	"log/slog"
	"os"

	"github.com/polkiloo/checkout/internal/config"
)

// New creates a preconfigured slog.Logger. Development builds log at debug level.
func New(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Development() {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
