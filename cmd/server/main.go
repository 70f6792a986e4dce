package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/conduit/internal/config"
	"github.com/conduit/internal/db"
	"github.com/conduit/internal/logger"
	"github.com/conduit/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath, logger.GormLevel(cfg.LogLevel)); err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to initialize database")
	}

	if cfg.SeedUsername != "" {
		if err := db.EnsurePerson(db.DB, cfg.SeedUsername, cfg.SeedEmail, cfg.SeedPassword); err != nil {
			log.Fatal().Err(err).Str("username", cfg.SeedUsername).Msg("failed to seed account")
		}
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router.SetupRouter(db.DB, cfg.SessionSecret, log),
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
