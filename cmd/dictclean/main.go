// Command dictclean rewrites a word → definition JSON file so it only holds
// entries the game can use: words of at most -length letters made only
// of a-z.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lexicle/apps/go-server/internal/dictionary"
	"github.com/robalobadob/lexicle/apps/go-server/internal/game"
	"github.com/robalobadob/lexicle/apps/go-server/internal/logging"
)

func main() {
	var in, out string
	var length int
	var pretty bool

	flag.StringVar(&in, "in", "dictionary.json", "source dictionary JSON")
	flag.StringVar(&out, "out", "dictionary_clean.json", "destination for the cleaned dictionary")
	flag.IntVar(&length, "length", game.WordLength, "maximum word length to keep")
	flag.BoolVar(&pretty, "pretty", true, "human-readable log output")
	flag.Parse()

	logging.Setup("info", pretty)

	if length <= 0 {
		log.Error().Int("length", length).Msg("-length must be positive")
		os.Exit(2)
	}

	d, err := dictionary.LoadFile(in)
	if err != nil {
		log.Error().Err(err).Str("path", in).Msg("load dictionary")
		os.Exit(1)
	}
	cleaned := d.Clean(length)
	if err := dictionary.SaveFile(cleaned, out); err != nil {
		log.Error().Err(err).Str("path", out).Msg("save dictionary")
		os.Exit(1)
	}
	log.Info().
		Int("before", d.Len()).
		Int("after", cleaned.Len()).
		Int("targets", len(cleaned.Words(length))).
		Str("out", out).
		Msg("dictionary cleaned")
}
