// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/guesthouse/internal/config"
)

const tokenIssuer = "guesthouse"

// ErrInvalidToken wraps every token rejection.
var ErrInvalidToken = errors.New("invalid session token")

// Claims identify an admin session.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and checks HS256 session tokens.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
	parser  *jwt.Parser
}

// NewJWTManager reads the secret and session lifetime from cfg. The secret
// is required; the lifetime defaults to 24h.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required but was empty")
	}
	m := &JWTManager{
		secret:  []byte(cfg.JWTSecret),
		timeout: cfg.SessionTimeout,
		now:     time.Now,
	}
	if m.timeout <= 0 {
		m.timeout = 24 * time.Hour
	}
	// Only HS256 is accepted, which also rules out alg "none".
	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	return m, nil
}

// Timeout is the lifetime of issued tokens.
func (m *JWTManager) Timeout() time.Duration {
	return m.timeout
}

// GenerateToken signs a session for username with role and returns the
// token with its expiry.
func (m *JWTManager) GenerateToken(username, role string) (string, time.Time, error) {
	issued := m.now()
	expires := issued.Add(m.timeout)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken verifies signature, issuer and validity window and returns
// the claims. All failures wrap ErrInvalidToken.
func (m *JWTManager) ValidateToken(raw string) (*Claims, error) {
	claims := new(Claims)
	if _, err := m.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Username == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing username or role", ErrInvalidToken)
	}
	return claims, nil
}
