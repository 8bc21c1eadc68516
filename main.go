package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lexicle/apps/go-server/internal/config"
	"github.com/robalobadob/lexicle/apps/go-server/internal/dictionary"
	"github.com/robalobadob/lexicle/apps/go-server/internal/game"
	"github.com/robalobadob/lexicle/apps/go-server/internal/httpserver"
	"github.com/robalobadob/lexicle/apps/go-server/internal/logging"
	"github.com/robalobadob/lexicle/apps/go-server/internal/sqlstore"
	"github.com/robalobadob/lexicle/apps/go-server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info", false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	dict, err := dictionary.Open(cfg.DictionaryFile, game.WordLength)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DictionaryFile).Msg("failed to load dictionary")
	}
	log.Info().Int("words", dict.Len()).Int("targets", len(dict.Words(game.WordLength))).Msg("dictionary loaded")

	db, err := sqlstore.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	go store.Janitor(ctx, mem, cfg.SessionTTL, time.Minute)

	srv, err := httpserver.New(httpserver.Deps{
		Config:   cfg,
		Sessions: mem,
		DB:       db,
		Dict:     dict,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	log.Info().Int("port", cfg.Port).Msg("starting go-server")
	if err := srv.Start(ctx, cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
}
