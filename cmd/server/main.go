// Watchdeck - Per-User Watchlist Service for Movies and TV Shows
// Copyright 2026 Watchdeck Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdeck/watchdeck

// Command server runs the Watchdeck HTTP API.
//
// Startup order matters: configuration and logging come first so every
// later failure is reported through the structured logger, then the
// DuckDB store (schema creation, migrations, optional demo seed), the
// page cache backend, the watchlist engine, and finally the supervision
// tree that owns the HTTP server and the cache sweeper.
//
// Configuration is layered: defaults, then config.yaml (working
// directory or /etc/watchdeck), then environment variables.
// SIGINT and SIGTERM trigger a graceful shutdown: in-flight requests
// get a bounded drain window before the process exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/watchdeck/watchdeck/internal/api"
	"github.com/watchdeck/watchdeck/internal/cache"
	"github.com/watchdeck/watchdeck/internal/config"
	"github.com/watchdeck/watchdeck/internal/database"
	"github.com/watchdeck/watchdeck/internal/logging"
	"github.com/watchdeck/watchdeck/internal/supervisor"
	"github.com/watchdeck/watchdeck/internal/supervisor/services"
	"github.com/watchdeck/watchdeck/internal/watchlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("cache_backend", cfg.Cache.Backend).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting Watchdeck")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}

	logging.Info().Msg("Watchdeck stopped gracefully")
}

func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	pageCache := cache.New(&cfg.Cache)
	defer func() {
		if err := pageCache.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close page cache")
		}
	}()

	engine := watchlist.New(db, db, db, pageCache, cfg.API)
	handler := api.NewHandler(engine, db)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	// Redis and the noop backend need no local maintenance; the memory
	// and badger backends get a supervised sweeper.
	if sweepable, ok := pageCache.(services.Sweepable); ok {
		tree.AddCacheService(services.NewSweeperService(sweepable, cfg.Cache.SweepInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("supervision tree failed: %w", err)
		}
	}

	// Drain the tree's result after cancellation so every service gets
	// its shutdown window.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Service stopped with error")
		}
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil {
		for _, svc := range unstopped {
			logging.Warn().Str("service", fmt.Sprintf("%v", svc.Service)).Msg("Service did not stop in time")
		}
	}

	return nil
}
