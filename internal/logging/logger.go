// Package logging provides structured logging with zerolog.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds logging configuration.
type Config struct {
	Level  string    // trace, debug, info, warn, error
	Format string    // console, json
	Out    io.Writer // defaults to stderr
}

// DefaultConfig keeps the CLI quiet unless something goes wrong.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: FormatConsole,
	}
}

// Init initializes the global zerolog logger. Logs go to stderr so stdout
// stays reserved for validation output.
func Init(cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
		}
	}

	log.Logger = zerolog.New(out).
		With().
		Timestamp().
		Logger()
}

// WithComponent returns a logger with a component tag.
func WithComponent(component string) *zerolog.Logger {
	l := log.With().
		Str("component", component).
		Logger()
	return &l
}

// WithDocument returns a logger tagged with the document being validated.
func WithDocument(component, path string) *zerolog.Logger {
	l := log.With().
		Str("component", component).
		Str("document", path).
		Logger()
	return &l
}
