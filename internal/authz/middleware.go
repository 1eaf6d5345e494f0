// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package authz

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/auth"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
)

// Middleware provides authorization middleware using Casbin.
type Middleware struct {
	enforcer *Enforcer
	audit    *audit.Logger
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// SetAuditLogger records denied requests in the activity log. A nil logger
// disables recording.
func (m *Middleware) SetAuditLogger(logger *audit.Logger) {
	m.audit = logger
}

// AuthorizeRequest checks the authenticated role against the request path
// and method. It must run after auth.Middleware.Authenticate.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.ClaimsFromContext(r.Context())
		if claims == nil {
			writeError(w, r, http.StatusForbidden, "FORBIDDEN", "No authentication context")
			return
		}

		action := MethodToAction(r.Method)
		allowed, err := m.enforcer.Enforce(claims.Role, r.URL.Path, action)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization failed")
			return
		}
		if !allowed {
			metrics.AuthzDenials.WithLabelValues(claims.Role).Inc()
			logging.Ctx(r.Context()).Warn().
				Str("username", claims.Username).
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Str("action", action).
				Msg("Request denied by policy")
			m.audit.LogAccessDenied(r.Context(), audit.UserActor(claims.Username, claims.Role),
				audit.SourceFromRequest(r), r.URL.Path, action)
			writeError(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// MethodToAction maps HTTP methods to policy actions.
func MethodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	default:
		return ActionWrite
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{
		"success": false,
		"error": map[string]string{
			"code":       code,
			"message":    message,
			"request_id": logging.RequestIDFromContext(r.Context()),
		},
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode authorization error")
	}
}
