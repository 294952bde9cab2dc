// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dialfa/insight/internal/models"
)

// Health handles GET /api/health. Public endpoint, cached on a short TTL
// so a monitoring loop does not turn into a database ping storm. The body
// reports per-database status rather than failing the whole endpoint when
// one source is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, "dashboard", "health_check", nil, func(ctx context.Context) (interface{}, error) {
		databases, healthy := h.data.Health(ctx)

		status := "healthy"
		if !healthy {
			status = "degraded"
		}

		return models.HealthStatus{
			Status:    status,
			Version:   h.version,
			UptimeS:   int64(time.Since(h.startTime).Seconds()),
			Databases: databases,
			Cache:     h.cacheAdmin.Stats(ctx).Backend,
		}, nil
	})
}
