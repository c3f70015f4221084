// Package logging builds the zerolog logger behind the --debug trace stream.
package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at debug level when debug is
// set, and a disabled logger otherwise. The filtered source goes to stdout,
// so w is normally stderr.
func New(w io.Writer, debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "15:04:05",
	}
	return zerolog.New(console).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Str("component", "pydoxy").
		Logger()
}
