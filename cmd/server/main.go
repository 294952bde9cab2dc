// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

// Package main is the entry point for the Insight server.
//
// Insight is a business intelligence dashboard over two backing databases:
// the SPISA operational database (customers, balances, transactions, stock)
// and the xERP database (invoicing and order lines). Every analytics query
// runs through a TTL result cache so repeated dashboard loads do not hammer
// the production databases.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, config.yaml, environment (Koanf v2)
//  2. Logging: global zerolog, json or console format
//  3. Databases: Postgres pools for SPISA and xERP, pinged at startup
//  4. Cache: in-memory or Redis result store behind a circuit breaker
//  5. Authentication: JWT session cookies, or none for development
//  6. HTTP server: chi router with rate limiting and Prometheus metrics
//
// # Configuration
//
// Key environment variables:
//   - SPISA_DSN / XERP_DSN: Postgres connection strings (required)
//   - REDIS_URL: switches the cache backend to Redis
//   - JWT_SECRET: 32+ character secret for token signing
//   - ADMIN_USERNAME / ADMIN_PASSWORD: admin account
//   - AUTH_MODE=none: disable authentication for development
//   - PORT / LOG_LEVEL: server port and log verbosity
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10 seconds for in-flight
// requests, then closes the cache store and database pools.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dialfa/insight/internal/api"
	"github.com/dialfa/insight/internal/auth"
	"github.com/dialfa/insight/internal/cache"
	"github.com/dialfa/insight/internal/config"
	"github.com/dialfa/insight/internal/database"
	"github.com/dialfa/insight/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Default logger for config errors (config not yet available).
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("cache_backend", cfg.Cache.Backend).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Insight")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to databases")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing databases")
		}
	}()
	logging.Info().Msg("Database pools initialized")

	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize cache store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache store")
		}
	}()

	policy := cache.NewPolicy(cfg.Cache.DefaultTTL)
	runner := cache.NewRunner(store, policy)
	cacheAdmin := cache.NewAdmin(store)
	logging.Info().
		Str("backend", cfg.Cache.Backend).
		Dur("default_ttl", cfg.Cache.DefaultTTL).
		Msg("Result cache initialized")

	var users *auth.Users
	var jwtManager *auth.JWTManager
	if cfg.Security.AuthMode != "none" {
		users, err = auth.NewUsers(cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to load user accounts")
		}
		jwtManager, err = auth.NewJWTManager(cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
	} else {
		logging.Warn().Msg("Authentication disabled (AUTH_MODE=none)")
	}

	handler := api.NewHandler(db, runner, cacheAdmin, users, jwtManager, cfg, version)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}
