// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guesthouse/internal/logging"
)

type contextKey string

// ClaimsContextKey holds the *Claims of an authenticated request.
const ClaimsContextKey contextKey = "claims"

// TokenCookieName is the HTTP-only cookie carrying the JWT.
const TokenCookieName = "guesthouse_token"

// Middleware authenticates admin requests.
type Middleware struct {
	jwtManager   *JWTManager
	cookieSecure bool
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(jwtManager *JWTManager, cookieSecure bool) *Middleware {
	return &Middleware{jwtManager: jwtManager, cookieSecure: cookieSecure}
}

// Authenticate rejects requests without a valid token with 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractToken(r)
		if !ok {
			writeUnauthorized(w, r, "Authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Token validation failed")
			writeUnauthorized(w, r, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// Identify returns the claims of a valid token on r, or nil. Unlike
// Authenticate it never rejects the request.
func (m *Middleware) Identify(r *http.Request) *Claims {
	token, ok := extractToken(r)
	if !ok {
		return nil
	}
	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		return nil
	}
	return claims
}

// extractToken prefers the Authorization header over the cookie.
func extractToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// SetTokenCookie stores token in the HTTP-only session cookie.
func (m *Middleware) SetTokenCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   m.cookieSecure || r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearTokenCookie expires the session cookie.
func (m *Middleware) ClearTokenCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookieSecure || r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

// ContextWithClaims stores claims in ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated claims, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}

// writeUnauthorized writes the same error envelope as the api package.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="guesthouse"`)
	w.WriteHeader(http.StatusUnauthorized)
	body := map[string]any{
		"success": false,
		"error": map[string]string{
			"code":       "UNAUTHORIZED",
			"message":    message,
			"request_id": logging.RequestIDFromContext(r.Context()),
		},
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode unauthorized response")
	}
}
