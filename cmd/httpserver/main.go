package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"moviehub/httpserver"
	"moviehub/movie"
	"moviehub/pkg/config"
	"moviehub/pkg/sentry"
	"moviehub/rapidapi"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	err = sentry.Init(sentry.Options{
		DSN:         cfg.SentryDSN,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentry.Flush()

	if cfg.MovieAPI.Key == "" {
		// requests fail with a configuration error until the key is set
		slog.Warn("MOVIE_API_KEY is not set")
	}

	client := rapidapi.NewClient(rapidapi.Options{
		Key:       cfg.MovieAPI.Key,
		Host:      cfg.MovieAPI.Host,
		BaseURL:   cfg.MovieAPI.BaseURL,
		Timeout:   cfg.MovieAPI.Timeout,
		RateLimit: cfg.MovieAPI.RateLimit,
		Logger:    logger,
	})

	server := httpserver.Default(cfg)
	server.Logger = logger
	server.MovieService = movie.NewUsecase(client)
	if cfg.Port != 0 {
		server.Addr = fmt.Sprintf(":%d", cfg.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server started!", "addr", server.Addr)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped with error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
