// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

// Package database provides data access against the two backing databases:
// the SPISA operational database (customers, balances, transactions, stock)
// and the xERP database (invoicing and order lines). One method per
// dashboard metric, each scanning into internal/models structs.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/dialfa/insight/internal/config"
	"github.com/dialfa/insight/internal/logging"
)

// Database names used in health reports and metrics labels.
const (
	SourceOperational = "spisa"
	SourceERP         = "xerp"
)

// DB holds the connection pools for both backing databases.
type DB struct {
	operational *sql.DB
	erp         *sql.DB
}

// Open connects both pools and verifies connectivity. A failed ping is
// fatal at startup: the dashboard has nothing to show without its data
// sources.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	operational, err := openPool(ctx, SourceOperational, cfg.OperationalDSN, cfg)
	if err != nil {
		return nil, err
	}
	erp, err := openPool(ctx, SourceERP, cfg.ERPDSN, cfg)
	if err != nil {
		_ = operational.Close()
		return nil, err
	}
	return &DB{operational: operational, erp: erp}, nil
}

func openPool(ctx context.Context, name, dsn string, cfg config.DatabaseConfig) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("no DSN configured for %s database", name)
	}
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", name, err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("pinging %s database: %w", name, err)
	}

	logging.Info().Str("database", name).Int("max_open_conns", cfg.MaxOpenConns).Msg("Database connected")
	return pool, nil
}

// Health pings both databases and returns per-database status, "ok" or the
// error text. The second return is false when any database is unreachable.
func (db *DB) Health(ctx context.Context) (map[string]string, bool) {
	statuses := make(map[string]string, 2)
	healthy := true
	for name, pool := range map[string]*sql.DB{
		SourceOperational: db.operational,
		SourceERP:         db.erp,
	} {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := pool.PingContext(pingCtx)
		cancel()
		if err != nil {
			statuses[name] = err.Error()
			healthy = false
			continue
		}
		statuses[name] = "ok"
	}
	return statuses, healthy
}

// Close closes both pools.
func (db *DB) Close() error {
	errOp := db.operational.Close()
	errERP := db.erp.Close()
	if errOp != nil {
		return errOp
	}
	return errERP
}
