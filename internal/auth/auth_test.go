// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/guesthouse/internal/config"
)

const testSecret = "test_secret_with_at_least_32_characters_for_testing"

func init() {
	bcryptCost = bcrypt.MinCost
}

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:      testSecret,
		SessionTimeout: time.Hour,
		AdminUsername:  "admin",
		AdminPassword:  "admin-password",
		StaffUsername:  "staff",
		StaffPassword:  "staff-password",
	}
}

func TestCredentials_Authenticate(t *testing.T) {
	t.Parallel()

	creds, err := NewCredentials(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewCredentials: %v", err)
	}

	tests := []struct {
		name     string
		user     string
		pass     string
		wantRole string
		wantErr  bool
	}{
		{"admin", "admin", "admin-password", RoleAdmin, false},
		{"staff", "staff", "staff-password", RoleStaff, false},
		{"wrong password", "admin", "staff-password", "", true},
		{"unknown user", "guest", "admin-password", "", true},
		{"empty", "", "", "", true},
		{"case sensitive", "Admin", "admin-password", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			role, err := creds.Authenticate(tt.user, tt.pass)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("err = %v, want ErrInvalidCredentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate: %v", err)
			}
			if role != tt.wantRole {
				t.Errorf("role = %q, want %q", role, tt.wantRole)
			}
		})
	}
}

func TestNewCredentials_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.SecurityConfig)
	}{
		{"no admin user", func(c *config.SecurityConfig) { c.AdminUsername = "" }},
		{"short admin password", func(c *config.SecurityConfig) { c.AdminPassword = "short" }},
		{"short staff password", func(c *config.SecurityConfig) { c.StaffPassword = "short" }},
		{"staff same as admin", func(c *config.SecurityConfig) { c.StaffUsername = "admin" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testSecurityConfig()
			tt.mutate(cfg)
			if _, err := NewCredentials(cfg); err == nil {
				t.Error("expected error")
			}
		})
	}

	cfg := testSecurityConfig()
	cfg.StaffUsername, cfg.StaffPassword = "", ""
	creds, err := NewCredentials(cfg)
	if err != nil {
		t.Fatalf("admin only: %v", err)
	}
	if _, err := creds.Authenticate("staff", "staff-password"); err == nil {
		t.Error("disabled staff account authenticated")
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	token, expiresAt, err := m.GenerateToken("admin", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 || time.Until(expiresAt) > time.Hour {
		t.Errorf("expiresAt = %v", expiresAt)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "admin" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	t.Parallel()

	m, _ := NewJWTManager(testSecurityConfig())

	other := testSecurityConfig()
	other.JWTSecret = "another_secret_with_at_least_32_characters_long"
	otherManager, _ := NewJWTManager(other)
	foreign, _, _ := otherManager.GenerateToken("admin", RoleAdmin)

	expiredManager, _ := NewJWTManager(testSecurityConfig())
	expiredManager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, _ := expiredManager.GenerateToken("admin", RoleAdmin)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "admin", Role: RoleAdmin})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"foreign secret": foreign,
		"expired":        expired,
		"alg none":       unsigned,
		"garbage":        "not.a.token",
		"empty":          "",
	} {
		if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: ValidateToken = %v, want ErrInvalidToken", name, err)
		}
	}

	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("empty secret accepted")
	}
}

func TestMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	jm, _ := NewJWTManager(testSecurityConfig())
	mw := NewMiddleware(jm, false)
	token, _, _ := jm.GenerateToken("staff", RoleStaff)

	var seen *Claims
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusNoContent},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token}) }, http.StatusNoContent},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"basic scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, http.StatusUnauthorized},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/houses", nil)
		tt.setup(req)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.status)
		}
		if tt.status == http.StatusNoContent && (seen == nil || seen.Role != RoleStaff) {
			t.Errorf("%s: claims not in context: %+v", tt.name, seen)
		}
		if tt.status == http.StatusUnauthorized && !strings.Contains(w.Body.String(), `"UNAUTHORIZED"`) {
			t.Errorf("%s: body = %s", tt.name, w.Body.String())
		}
	}
}

func TestMiddleware_Cookies(t *testing.T) {
	t.Parallel()

	jm, _ := NewJWTManager(testSecurityConfig())
	mw := NewMiddleware(jm, true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)

	w := httptest.NewRecorder()
	mw.SetTokenCookie(w, req, "tok", time.Now().Add(time.Hour))
	c := w.Result().Cookies()
	if len(c) != 1 || c[0].Name != TokenCookieName || !c[0].HttpOnly || !c[0].Secure || c[0].Value != "tok" {
		t.Errorf("set cookie = %+v", c)
	}

	w = httptest.NewRecorder()
	mw.ClearTokenCookie(w, req)
	c = w.Result().Cookies()
	if len(c) != 1 || c[0].MaxAge >= 0 || c[0].Value != "" {
		t.Errorf("clear cookie = %+v", c)
	}
}

func TestMiddleware_Identify(t *testing.T) {
	t.Parallel()

	jm, _ := NewJWTManager(testSecurityConfig())
	mw := NewMiddleware(jm, false)
	token, _, _ := jm.GenerateToken("admin", RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	if claims := mw.Identify(req); claims != nil {
		t.Errorf("anonymous request identified as %+v", claims)
	}

	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	if claims := mw.Identify(req); claims == nil || claims.Username != "admin" {
		t.Errorf("cookie claims = %+v", claims)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer forged")
	if claims := mw.Identify(req); claims != nil {
		t.Errorf("forged token identified as %+v", claims)
	}
}
