// Package logger builds the zerolog logger used by the host tools.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New returns a console logger writing to out, or stderr when out is nil.
// The level is warn by default, info with verbose and debug with debug.
// Colours are only used when out is a terminal.
func New(out io.Writer, debug, verbose bool) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !isTerminal(out),
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).
		Level(Level(debug, verbose)).
		With().
		Timestamp().
		Logger()
}

// Level maps the command line switches to a zerolog level
func Level(debug, verbose bool) zerolog.Level {
	switch {
	case debug:
		return zerolog.DebugLevel
	case verbose:
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
