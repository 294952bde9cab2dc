// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

// Package config loads and validates application configuration using
// Koanf v2 with layered sources: built-in defaults, an optional YAML file,
// and environment variables (highest priority).
package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// DatabaseConfig holds connection settings for the two backing databases.
//
// The operational database (SPISA) carries customers, balances, transactions
// and stock; the ERP database (xERP) carries invoicing and order lines.
// Both are Postgres DSNs.
type DatabaseConfig struct {
	OperationalDSN  string        `koanf:"operational_dsn"`
	ERPDSN          string        `koanf:"erp_dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// CacheConfig selects and tunes the result cache backend.
//
// Backend is "memory" or "redis". When RedisURL is set the redis backend is
// selected automatically regardless of Backend, matching the deployment
// convention where the platform injects REDIS_URL.
type CacheConfig struct {
	Backend       string        `koanf:"backend"`
	DefaultTTL    time.Duration `koanf:"default_ttl"`
	RedisURL      string        `koanf:"redis_url"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	KeyPrefix     string        `koanf:"key_prefix"`
}

// SecurityConfig holds authentication settings.
//
// Two static accounts are supported: an admin (full access including cache
// administration) and a viewer (read-only dashboard access). Passwords may
// be given in plaintext (hashed at startup) or as bcrypt hashes.
type SecurityConfig struct {
	AuthMode        string        `koanf:"auth_mode"` // jwt or none
	JWTSecret       string        `koanf:"jwt_secret"`
	SessionTimeout  time.Duration `koanf:"session_timeout"`
	AdminUsername   string        `koanf:"admin_username"`
	AdminPassword   string        `koanf:"admin_password"`
	ViewerUsername  string        `koanf:"viewer_username"`
	ViewerPassword  string        `koanf:"viewer_password"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			OperationalDSN:  "",
			ERPDSN:          "",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			DefaultTTL: 5 * time.Minute,
			RedisURL:   "",
			RedisDB:    0,
			KeyPrefix:  "insight:",
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			JWTSecret:       "",
			SessionTimeout:  24 * time.Hour,
			AdminUsername:   "admin",
			AdminPassword:   "",
			ViewerUsername:  "user",
			ViewerPassword:  "",
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
