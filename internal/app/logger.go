package app

import (
	"log/slog"
	"os"
)

// NewLogger returns a configured slog.Logger based on configuration.
// Production deployments set LOG_FORMAT=json for structured ingestion.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{}
	if cfg != nil && cfg.IsProduction() {
		opts.Level = slog.LevelInfo
	} else {
		opts.Level = slog.LevelDebug
	}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
