// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dialfa/insight/internal/cache"
	"github.com/dialfa/insight/internal/metrics"
	"github.com/dialfa/insight/internal/models"
)

// CacheClear handles POST /api/admin/cache/clear. Removes every cached
// entry across all modules.
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	removed, err := h.cacheAdmin.ClearAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "CACHE_ERROR", "failed to clear cache", err)
		return
	}
	metrics.RecordCacheInvalidation("all")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"message":         "cache cleared",
			"entries_removed": removed,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// CacheClearModule handles POST /api/admin/cache/clear/{module}. Unknown
// module names are a client error, not a no-op.
func (h *Handler) CacheClearModule(w http.ResponseWriter, r *http.Request) {
	module := chi.URLParam(r, "module")

	removed, err := h.cacheAdmin.ClearModule(r.Context(), module)
	if err != nil {
		if errors.Is(err, cache.ErrInvalidModule) {
			message := fmt.Sprintf("unknown module %q, valid modules: %s",
				sanitizeLogValue(module), strings.Join(cache.ModuleNames(), ", "))
			respondError(w, http.StatusBadRequest, "INVALID_MODULE", message, nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "CACHE_ERROR", "failed to clear cache module", err)
		return
	}
	metrics.RecordCacheInvalidation(module)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"message":         "cache module cleared",
			"module":          module,
			"entries_removed": removed,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// CacheStats handles GET /api/admin/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.cacheAdmin.Stats(r.Context())

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"backend":         stats.Backend,
			"default_timeout": int(h.cfg.Cache.DefaultTTL.Seconds()),
			"entry_count":     stats.Keys,
			"hits":            stats.Hits,
			"misses":          stats.Misses,
			"evictions":       stats.Evictions,
			"hit_rate":        stats.HitRate(),
			"modules":         cache.ModuleNames(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// CacheSelfTest handles GET /api/admin/cache/test. An unhealthy roundtrip
// returns 500 with the probe detail so operators can see which step failed.
func (h *Handler) CacheSelfTest(w http.ResponseWriter, r *http.Request) {
	result := h.cacheAdmin.SelfTest(r.Context())

	status := http.StatusOK
	responseStatus := "success"
	if !result.Healthy {
		status = http.StatusInternalServerError
		responseStatus = "error"
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   responseStatus,
		Data:     result,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
