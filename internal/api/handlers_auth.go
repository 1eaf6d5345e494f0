// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/auth"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// LoginResponse carries the issued token. The same token is also set as an
// HTTP-only cookie for the browser admin page.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// Login authenticates an admin or staff account.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role, ok := h.authenticateCredentials(w, r, &req)
	if !ok {
		return
	}

	h.generateAndSendToken(w, r, req.Username, role)
}

// authenticateCredentials checks the password and answers 401 on failure.
func (h *Handler) authenticateCredentials(w http.ResponseWriter, r *http.Request, req *LoginRequest) (string, bool) {
	role, err := h.creds.Authenticate(req.Username, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		logging.Ctx(r.Context()).Warn().
			Str("username", logging.SanitizeLogValue(req.Username)).
			Str("remote_addr", r.RemoteAddr).
			Msg("Failed login attempt")
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.audit.LogLoginFailure(r.Context(), logging.SanitizeLogValue(req.Username), audit.SourceFromRequest(r), "invalid credentials")
			respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Invalid username or password", nil)
			return "", false
		}
		respondStoreError(w, r, err, "login")
		return "", false
	}
	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return role, true
}

func (h *Handler) generateAndSendToken(w http.ResponseWriter, r *http.Request, username, role string) {
	token, expiresAt, err := h.jwt.GenerateToken(username, role)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to generate token")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to generate token", nil)
		return
	}

	h.authMW.SetTokenCookie(w, r, token, expiresAt)

	logging.Ctx(r.Context()).Info().
		Str("username", logging.SanitizeLogValue(username)).
		Str("role", role).
		Msg("User logged in")
	h.audit.LogLogin(r.Context(), audit.UserActor(username, role), audit.SourceFromRequest(r))

	w.Header().Set("Cache-Control", "no-store")
	respondData(w, r, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  username,
		Role:      role,
	})
}

// Logout clears the session cookie. Tokens are stateless, so a bearer token
// stays valid until it expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := h.authMW.Identify(r); claims != nil {
		h.audit.LogLogout(r.Context(), audit.UserActor(claims.Username, claims.Role), audit.SourceFromRequest(r))
	}
	h.authMW.ClearTokenCookie(w, r)
	respondData(w, r, map[string]bool{"logged_out": true})
}

// Me returns the authenticated account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Not authenticated", nil)
		return
	}
	var expiresAt *time.Time
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		expiresAt = &t
	}
	respondData(w, r, map[string]interface{}{
		"username":   claims.Username,
		"role":       claims.Role,
		"expires_at": expiresAt,
	})
}
