// Package app wires configuration, logging and the Lua host into the script
// runner used by the command line.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/katemewow/arraylist/internal/config"
)

// ParseLogLevel parses a level name. Unlike zerolog.ParseLevel it accepts
// "warning" and rejects the empty string.
func ParseLogLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "warning":
		return zerolog.WarnLevel, nil
	case "":
		return zerolog.NoLevel, fmt.Errorf("empty log level")
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

// NewLogger builds a logger from the log section of the configuration.
// A nil output defaults to os.Stderr.
func NewLogger(cfg config.LogConfig, output io.Writer) (zerolog.Logger, error) {
	if output == nil {
		output = os.Stderr
	}
	lvl, err := ParseLogLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var w io.Writer
	switch cfg.Format {
	case "json":
		w = output
	case "console", "":
		w = zerolog.ConsoleWriter{Out: output, TimeFormat: time.TimeOnly, NoColor: !isTerminal(output)}
	default:
		return zerolog.Nop(), fmt.Errorf("log format %q: must be console or json", cfg.Format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// WithComponent returns a logger tagged with the component field.
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}
