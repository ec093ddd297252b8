// Package log configures the process-wide slog logger. Logs always go to
// stderr so stdout stays free for command output and the MCP protocol.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the handler output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds the logging configuration.
type Config struct {
	// Level is one of debug, info, warn, error. Default: warn.
	Level string
	// Format defaults to text.
	Format Format
	// Output defaults to os.Stderr.
	Output    io.Writer
	AddSource bool
}

// DefaultConfig is quiet text logging to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  "warn",
		Format: FormatText,
		Output: os.Stderr,
	}
}

// FromEnv builds a Config from the environment:
//   - TAIGA_DEBUG: true/1 enables debug level and source locations
//   - TAIGA_LOG_LEVEL, then LOG_LEVEL: debug, info, warn, error
//   - LOG_FORMAT: json, text
//   - LOG_SOURCE: 1 adds source locations
func FromEnv() *Config {
	cfg := DefaultConfig()

	debug := os.Getenv("TAIGA_DEBUG")
	if debug == "true" || debug == "1" {
		cfg.Level = "debug"
		cfg.AddSource = true
	} else if level := os.Getenv("TAIGA_LOG_LEVEL"); level != "" {
		cfg.Level = strings.ToLower(level)
	} else if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = strings.ToLower(level)
	}

	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = Format(strings.ToLower(format))
	}
	if os.Getenv("LOG_SOURCE") == "1" {
		cfg.AddSource = true
	}
	return cfg
}

// New creates a logger from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}

// Setup installs a logger built from cfg as the slog default.
func Setup(cfg *Config) *slog.Logger {
	logger := New(cfg)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to a slog.Level. Unknown names are warn.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
