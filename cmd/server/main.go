// Package main provides the game server binary: it loads the word dataset,
// builds the room registry and lobby, and serves the websocket gateway.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/geoguess/internal/config"
	"github.com/cory-johannsen/geoguess/internal/game/hint"
	"github.com/cory-johannsen/geoguess/internal/game/room"
	"github.com/cory-johannsen/geoguess/internal/game/words"
	"github.com/cory-johannsen/geoguess/internal/gateway"
	"github.com/cory-johannsen/geoguess/internal/observability"
	"github.com/cory-johannsen/geoguess/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	wordsDir := flag.String("words", "", "path to word dataset directory; empty = use config value")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *wordsDir != "" {
		cfg.Words.Dir = *wordsDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server", zap.String("addr", cfg.Server.Addr()))

	// Load word dataset
	wordsStart := time.Now()
	countries, capitals, err := words.LoadDataset(cfg.Words.Dir)
	if err != nil {
		logger.Fatal("loading word dataset", zap.Error(err))
	}
	pool, err := words.NewPool(countries, capitals)
	if err != nil {
		logger.Fatal("building word pool", zap.Error(err))
	}
	clues := hint.NewProvider(append(countries, capitals...))
	logger.Info("word dataset loaded",
		zap.Int("countries", pool.Size(words.ModeCountries)),
		zap.Int("capitals", pool.Size(words.ModeCities)),
		zap.Int("union", pool.Size(words.ModeBoth)),
		zap.Duration("elapsed", time.Since(wordsStart)),
	)

	// Wire the coordination core
	registry := room.NewRegistry(pool, clues,
		cfg.Game.CodeLength, cfg.Game.MaxGuesses, cfg.Game.RoomChatLimit, logger)
	hub := gateway.NewHub()
	lobby := gateway.NewLobby(hub, cfg.Game.LobbyChatLimit)
	gw := gateway.NewServer(cfg, hub, registry, lobby, logger)

	logger.Info("game server initialized", zap.Duration("startup", time.Since(start)))

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("gateway", gw)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
