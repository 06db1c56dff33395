// Package logging builds the zerolog loggers used by the generator.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when no level or an unknown level is configured.
const DefaultLevel = zerolog.InfoLevel

// New creates a logger writing to w. Console output is human-readable;
// otherwise each event is one JSON object. Unknown levels fall back to
// DefaultLevel.
func New(level string, w io.Writer, console bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = DefaultLevel
	}

	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
