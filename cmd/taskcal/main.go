package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskcal/internal/auth"
	"taskcal/internal/config"
	"taskcal/internal/models"
	"taskcal/internal/reminder"
	"taskcal/internal/server"
	"taskcal/internal/storage"
	"taskcal/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("TASKCAL_ADDR", ":8080"), "HTTP listen address")
	dbFlag := flag.String("db", util.EnvOrDefault("TASKCAL_DB_PATH", "data/taskcal.db"), "Path to sqlite database file")
	staticFlag := flag.String("static", util.EnvOrDefault("TASKCAL_STATIC_DIR", "web/dist"), "Directory with built frontend")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg.Addr = *addrFlag
	cfg.DatabaseURL = *dbFlag
	cfg.StaticDir = *staticFlag

	models.SetLocation(cfg.Timezone)

	store, err := storage.Open(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	authSvc := auth.New(store, cfg.JWTSecret, cfg.TokenTTL)
	srv := server.New(store, authSvc, logger, cfg.StaticDir, cfg.Timezone)

	if cfg.DigestInterval > 0 {
		digest := reminder.NewDigest(store, logger, cfg.Timezone)
		scheduler := reminder.NewScheduler(cfg.Timezone)
		if _, err := scheduler.Every(cfg.DigestInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := digest.Run(jobCtx); err != nil {
				logger.Error("digest failed", slog.String("error", err.Error()))
			}
		}); err != nil {
			logger.Error("unable to schedule digest", slog.String("error", err.Error()))
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
