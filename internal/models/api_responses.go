// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package models

import (
	"time"
)

// APIResponse is the standard envelope returned by every HTTP endpoint.
//
// Success responses carry Data and omit Error; error responses carry Error
// with Data null. Metadata is always present so clients can observe query
// latency and cache effectiveness.
//
// Example success:
//
//	{
//	  "status": "success",
//	  "data": {...},
//	  "metadata": {"timestamp": "2026-08-31T12:00:00Z", "query_time_ms": 23}
//	}
//
// Example error:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {"code": "INVALID_MODULE", "message": "unknown module \"payroll\""},
//	  "metadata": {"timestamp": "2026-08-31T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields. QueryTimeMS is 0 and
// Cached true when the response was served from the result cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a structured error payload.
//
// Common codes: VALIDATION_ERROR, INVALID_MODULE, DATABASE_ERROR,
// AUTHENTICATION_ERROR, AUTHORIZATION_ERROR, NOT_FOUND, CACHE_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// LoginRequest is the POST /api/auth/login body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and identity.
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HealthStatus is the GET /api/health payload.
type HealthStatus struct {
	Status    string            `json:"status"` // "healthy" or "degraded"
	Version   string            `json:"version"`
	UptimeS   int64             `json:"uptime_seconds"`
	Databases map[string]string `json:"databases"` // name -> "ok" or error text
	Cache     string            `json:"cache"`     // backend name
}
