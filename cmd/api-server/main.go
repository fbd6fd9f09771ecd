package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookrating/database"
	"bookrating/internal/config"
	"bookrating/internal/microservices/http-api/repository"
	"bookrating/internal/microservices/http-api/server"
)

const tokenPruneInterval = time.Hour

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Setup structured logging
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	var cache *repository.BookCache
	if cfg.CacheEnabled() {
		cache, err = repository.NewBookCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheDuration())
		if err != nil {
			// the API works without the cache, only slower
			logger.Warn("cache_unavailable", "error", err)
			cache = nil
		} else {
			defer cache.Close()
			logger.Info("cache_connected", "ttl_seconds", cfg.CacheTTL)
		}
	}

	app := server.New(server.Deps{DB: db, Config: cfg, Cache: cache, Logger: logger})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pruneTokens(ctx, app, logger)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server_started", "addr", srv.Addr, "env", cfg.GoEnv, "cache", cache != nil, "metrics", cfg.PrometheusEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("received_shutdown_signal")
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server_shutdown_failed", "error", err)
			os.Exit(1)
		}
		logger.Info("server_stopped_gracefully")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// pruneTokens drops expired and revoked refresh tokens once an hour
func pruneTokens(ctx context.Context, app *server.App, logger *slog.Logger) {
	ticker := time.NewTicker(tokenPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.Auth.PruneExpiredTokens(ctx)
			if err != nil {
				logger.Warn("token_prune_failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("tokens_pruned", "count", n)
			}
		}
	}
}
