// Package logging builds the leveled logger used for diagnostics about the
// wrapper itself. Build output and status lines never go through it.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// EnvLevel names the environment variable consulted when no level is given.
const EnvLevel = "NIN_LOG_LEVEL"

// Options configures New.
type Options struct {
	Name   string
	Level  string // trace, debug, info, warn, error; empty falls back to EnvLevel
	Debug  bool   // forces debug level
	Output io.Writer
	Color  bool
}

// New returns an hclog logger writing to Options.Output (stderr by default).
func New(opts Options) hclog.Logger {
	level := ParseLevel(opts.Level)
	if opts.Level == "" {
		level = ParseLevel(os.Getenv(EnvLevel))
	}
	if opts.Debug && level > hclog.Debug {
		level = hclog.Debug
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	color := hclog.ColorOff
	if opts.Color {
		color = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:        opts.Name,
		Level:       level,
		Output:      out,
		DisableTime: true,
		Color:       color,
	})
}

// ParseLevel maps a level name to an hclog level. Unknown names mean warn.
func ParseLevel(s string) hclog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Warn
	}
}
