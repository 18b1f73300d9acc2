package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/youruser/deckstudio/internal/api"
	"github.com/youruser/deckstudio/internal/artwork"
	"github.com/youruser/deckstudio/internal/cards"
	"github.com/youruser/deckstudio/internal/config"
	"github.com/youruser/deckstudio/internal/deck"
	imagepkg "github.com/youruser/deckstudio/internal/image"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	loader := cards.NewLoader(time.Duration(cfg.CatalogTTL) * time.Second)
	// a broken catalog is fatal: nothing works without it
	cs, err := loader.Load(cfg.DataDir)
	if err != nil {
		logger.Fatal("catalog load failed", zap.String("dataDir", cfg.DataDir), zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("cards", len(cs)))

	store, err := deck.NewStore(cfg.SaveDir)
	if err != nil {
		logger.Fatal("deck store init failed", zap.String("saveDir", cfg.SaveDir), zap.Error(err))
	}

	art := artwork.NewClient(cfg.ArtBaseURL, time.Duration(cfg.FetchTimeout)*time.Second, logger)
	composer := imagepkg.NewComposer(art, cfg.FontPaths, cfg.FetchLimit, logger)

	r := gin.Default()
	srv := api.NewServer(loader, cfg.DataDir, store, composer, logger)
	srv.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.Set(level); err == nil {
		c.Level = zap.NewAtomicLevelAt(lvl)
	}
	return c.Build()
}
