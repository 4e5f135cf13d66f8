package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the logger level, format and destination.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	App    string
	Env    string
	Output io.Writer // defaults to stdout
}

// New constructs a zerolog logger. Unknown levels fall back to info and
// unknown formats to JSON.
func New(opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	if strings.ToLower(strings.TrimSpace(opts.Format)) == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("app", opts.App).
		Str("env", opts.Env).
		Logger()
}
