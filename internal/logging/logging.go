// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup sets the global level and output. An unknown level falls back to
// info and is reported once the logger is ready.
func Setup(level string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: colorable.NewColorableStderr(), TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Str("level", level).Msg("unknown LOG_LEVEL, using info")
		return
	}
	zerolog.SetGlobalLevel(lvl)
}
