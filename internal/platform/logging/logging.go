// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the level and output format.
type Config struct {
	Level  slog.Level
	Format string // text | json
}

// LoadConfig reads LOG_LEVEL (debug|info|warn|error) and LOG_FORMAT (text|json).
func LoadConfig() Config {
	cfg := Config{Level: slog.LevelInfo, Format: "text"}
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		cfg.Level = slog.LevelDebug
	case "warn":
		cfg.Level = slog.LevelWarn
	case "error":
		cfg.Level = slog.LevelError
	}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		cfg.Format = "json"
	}
	return cfg
}

// New returns a logger writing to w.
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup installs the logger from the environment as slog's default and returns it.
func Setup() *slog.Logger {
	l := New(os.Stderr, LoadConfig())
	slog.SetDefault(l)
	return l
}
