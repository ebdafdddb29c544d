// main.go
//
// Entrypoint for the Chain Reaction HTTP server.
// Loads configuration (.env + environment), opens SQLite and applies the
// embedded migrations, then serves the JSON API.

package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chainreaction/assets"
	"github.com/robalobadob/chainreaction/internal/config"
	"github.com/robalobadob/chainreaction/internal/db"
	"github.com/robalobadob/chainreaction/internal/httpserver"
	"github.com/robalobadob/chainreaction/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, conn, cfg)
	log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting chainreaction server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
