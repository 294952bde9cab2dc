// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const koanfDelim = "."

// envAliases maps bare environment variable names (without a section prefix)
// to their koanf paths. These keep compatibility with the deployment
// environment, where platform-injected variables carry no section prefix.
var envAliases = map[string]string{
	"REDIS_URL":       "cache.redis_url",
	"REDIS_PASSWORD":  "cache.redis_password",
	"REDIS_DB":        "cache.redis_db",
	"JWT_SECRET":      "security.jwt_secret",
	"AUTH_MODE":       "security.auth_mode",
	"ADMIN_PASSWORD":  "security.admin_password",
	"VIEWER_PASSWORD": "security.viewer_password",
	"LOG_LEVEL":       "logging.level",
	"LOG_FORMAT":      "logging.format",
	"PORT":            "server.port",
	"ENVIRONMENT":     "server.environment",
	"SPISA_DSN":       "database.operational_dsn",
	"XERP_DSN":        "database.erp_dsn",
}

// sectionPrefixes are env var prefixes mapped onto config sections, e.g.
// DATABASE_MAX_OPEN_CONNS -> database.max_open_conns.
var sectionPrefixes = []string{"SERVER", "DATABASE", "CACHE", "SECURITY", "LOGGING"}

// Load builds the configuration from three layers, later layers overriding
// earlier ones:
//
//  1. built-in defaults
//  2. optional YAML file at configPath (skipped when the file is absent)
//  3. environment variables
//
// After merging, the Redis backend is auto-selected when a Redis URL is
// present, and the result is validated.
func Load(configPath string) (*Config, error) {
	k := koanf.New(koanfDelim)

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider("", koanfDelim, envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// REDIS_URL presence wins over an explicit backend setting.
	if cfg.Cache.RedisURL != "" {
		cfg.Cache.Backend = "redis"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envTransform maps an environment variable name to a koanf path, or ""
// to skip variables that do not belong to the configuration.
func envTransform(key string) string {
	if path, ok := envAliases[key]; ok {
		return path
	}
	for _, prefix := range sectionPrefixes {
		if strings.HasPrefix(key, prefix+"_") {
			rest := strings.TrimPrefix(key, prefix+"_")
			return strings.ToLower(prefix) + koanfDelim + strings.ToLower(rest)
		}
	}
	return ""
}
