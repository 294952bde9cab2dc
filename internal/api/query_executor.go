// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package api

import (
	"net/http"
	"time"

	"github.com/dialfa/insight/internal/cache"
	"github.com/dialfa/insight/internal/models"
)

// execute runs a dashboard query through the result cache and writes the
// envelope response. Every analytics handler is a thin wrapper over this:
// resolve parameters, then execute with the query's logical name.
//
// Cache hits respond with QueryTimeMS 0 and Cached true; fetch errors are
// never cached and surface as DATABASE_ERROR so the next request retries.
func (h *Handler) execute(w http.ResponseWriter, r *http.Request, module, query string, args interface{}, fetch cache.FetchFunc) {
	start := time.Now()

	payload, cached, err := h.runner.Do(r.Context(), module, query, args, fetch)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "query execution failed", err)
		return
	}

	metadata := models.Metadata{
		Timestamp: time.Now(),
		Cached:    cached,
	}
	if !cached {
		metadata.QueryTimeMS = time.Since(start).Milliseconds()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     payload,
		Metadata: metadata,
	})
}
