// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// ClaimsContextKey is the request context key holding the authenticated
// user's claims.
const ClaimsContextKey contextKey = "claims"

// TokenCookieName is the HTTP-only session cookie set at login.
const TokenCookieName = "insight_token"

// Middleware gates requests on a valid session. AuthMode "none" disables
// authentication for local development; every request then runs as admin.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
	onReject   func(w http.ResponseWriter, status int, code, message string)
}

// NewMiddleware creates the auth middleware. onReject writes the error
// response so the middleware stays agnostic of the API envelope.
func NewMiddleware(jwtManager *JWTManager, authMode string, onReject func(http.ResponseWriter, int, string, string)) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		authMode:   authMode,
		onReject:   onReject,
	}
}

// Authenticate resolves the session token from the cookie or Authorization
// header and stores the claims in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.authMode == "none" {
			claims := &Claims{Username: "dev", Role: RoleAdmin}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), ClaimsContextKey, claims)))
			return
		}

		tokenString, ok := extractToken(r)
		if !ok {
			m.onReject(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing credentials")
			return
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			m.onReject(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid or expired session")
			return
		}

		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), ClaimsContextKey, claims)))
	})
}

// RequireRole rejects authenticated requests whose role does not match.
// It must run inside Authenticate.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				m.onReject(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "missing credentials")
				return
			}
			if claims.Role != role {
				m.onReject(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the authenticated claims stored by
// Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

// extractToken reads the session token from the cookie, falling back to a
// Bearer Authorization header for API clients.
func extractToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}
