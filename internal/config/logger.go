package config

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a JSON logger at info level in production and a text
// logger at debug level everywhere else. Development adds source locations.
func NewLogger(cfg *Config) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.IsDevelopment(),
		Level:     slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("service", "faicial")
}
