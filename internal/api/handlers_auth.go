// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/dialfa/insight/internal/auth"
	"github.com/dialfa/insight/internal/logging"
	"github.com/dialfa/insight/internal/models"
)

// Login handles POST /api/auth/login. On success it sets the HTTP-only
// session cookie and also returns the token in the body for API clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.users == nil || h.jwtManager == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "authentication is disabled", nil)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required", nil)
		return
	}

	user, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		logging.Warn().
			Str("username", sanitizeLogValue(req.Username)).
			Str("remote", r.RemoteAddr).
			Msg("Login failed")
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid credentials", nil)
		return
	}

	token, err := h.jwtManager.GenerateToken(user.Username, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to issue token", err)
		return
	}

	expiresAt := time.Now().Add(h.jwtManager.Timeout())
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	logging.Info().
		Str("username", user.Username).
		Str("role", user.Role).
		Msg("Login succeeded")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.LoginResponse{
			Token:     token,
			Username:  user.Username,
			Role:      user.Role,
			ExpiresAt: expiresAt,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Logout handles POST /api/auth/logout. Stateless tokens cannot be revoked
// server-side, so logout just expires the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"message": "logged out"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Me handles GET /api/auth/me, returning the authenticated identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "not authenticated", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]string{
			"username": claims.Username,
			"role":     claims.Role,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
