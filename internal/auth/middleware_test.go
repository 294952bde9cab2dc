// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func rejectPlain(w http.ResponseWriter, status int, code, message string) {
	http.Error(w, code+": "+message, status)
}

func okHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("claims missing from context")
		} else if wantUser != "" && claims.Username != wantUser {
			t.Errorf("claims.Username = %q, want %q", claims.Username, wantUser)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateCookie(t *testing.T) {
	jm := newTestJWTManager(t, time.Hour)
	mw := NewMiddleware(jm, "jwt", rejectPlain)

	token, err := jm.GenerateToken("admin", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/financial/kpis", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	rec := httptest.NewRecorder()

	mw.Authenticate(okHandler(t, "admin")).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticateBearer(t *testing.T) {
	jm := newTestJWTManager(t, time.Hour)
	mw := NewMiddleware(jm, "jwt", rejectPlain)

	token, err := jm.GenerateToken("user", RoleUser)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sales/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.Authenticate(okHandler(t, "user")).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	jm := newTestJWTManager(t, time.Hour)
	mw := NewMiddleware(jm, "jwt", rejectPlain)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/summary", nil)
	rec := httptest.NewRecorder()

	mw.Authenticate(okHandler(t, "")).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	jm := newTestJWTManager(t, time.Hour)
	mw := NewMiddleware(jm, "jwt", rejectPlain)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/summary", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	mw.Authenticate(okHandler(t, "")).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthModeNone(t *testing.T) {
	mw := NewMiddleware(nil, "none", rejectPlain)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/summary", nil)
	rec := httptest.NewRecorder()

	mw.Authenticate(okHandler(t, "dev")).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 in none mode", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	jm := newTestJWTManager(t, time.Hour)
	mw := NewMiddleware(jm, "jwt", rejectPlain)

	adminOnly := mw.Authenticate(
		mw.RequireRole(RoleAdmin)(okHandler(t, "")))

	adminToken, err := jm.GenerateToken("admin", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	userToken, err := jm.GenerateToken("user", RoleUser)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"admin allowed", adminToken, http.StatusOK},
		{"user forbidden", userToken, http.StatusForbidden},
		{"anonymous unauthorized", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/cache/clear", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			adminOnly.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
