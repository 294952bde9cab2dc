// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validatable mirrors Config with validation tags. Kept separate so koanf
// struct tags and validator tags don't crowd the same definition.
type validatable struct {
	ServerPort    int    `validate:"min=1,max=65535"`
	Environment   string `validate:"oneof=development production"`
	CacheBackend  string `validate:"oneof=memory redis"`
	AuthMode      string `validate:"oneof=jwt none"`
	LogLevel      string `validate:"oneof=trace debug info warn error fatal"`
	LogFormat     string `validate:"oneof=json console"`
	MaxOpenConns  int    `validate:"min=1"`
	RateLimitReqs int    `validate:"min=1"`
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	v := validator.New()
	err := v.Struct(validatable{
		ServerPort:    c.Server.Port,
		Environment:   c.Server.Environment,
		CacheBackend:  c.Cache.Backend,
		AuthMode:      c.Security.AuthMode,
		LogLevel:      c.Logging.Level,
		LogFormat:     c.Logging.Format,
		MaxOpenConns:  c.Database.MaxOpenConns,
		RateLimitReqs: c.Security.RateLimitReqs,
	})
	if err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid config: field %s failed %q validation", f.Field(), f.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("invalid config: cache backend is redis but no redis_url is set")
	}
	if c.Security.AuthMode == "jwt" {
		if c.Security.JWTSecret == "" {
			return fmt.Errorf("invalid config: auth_mode is jwt but jwt_secret is empty")
		}
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("invalid config: jwt_secret must be at least 32 characters")
		}
		if c.Security.AdminPassword == "" {
			return fmt.Errorf("invalid config: auth_mode is jwt but admin_password is empty")
		}
	}
	if c.Server.IsProduction() && (c.Database.OperationalDSN == "" || c.Database.ERPDSN == "") {
		return fmt.Errorf("invalid config: operational_dsn and erp_dsn are required in production")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("invalid config: max_idle_conns (%d) exceeds max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	return nil
}
