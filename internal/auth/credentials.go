// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/guesthouse/internal/config"
)

// Roles known to the authorization policy.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

const minPasswordLength = 8

// ErrInvalidCredentials is returned for any failed login. It never says
// whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// bcryptCost is lowered by tests.
var bcryptCost = 12

type account struct {
	username     string
	passwordHash []byte
	role         string
}

// Credentials verifies logins against the configured accounts.
type Credentials struct {
	accounts  []account
	dummyHash []byte
}

// NewCredentials hashes the configured passwords.
func NewCredentials(cfg *config.SecurityConfig) (*Credentials, error) {
	c := &Credentials{}

	if err := c.add(cfg.AdminUsername, cfg.AdminPassword, RoleAdmin); err != nil {
		return nil, fmt.Errorf("admin account: %w", err)
	}
	if cfg.StaffUsername != "" {
		if cfg.StaffUsername == cfg.AdminUsername {
			return nil, fmt.Errorf("staff account: username must differ from admin")
		}
		if err := c.add(cfg.StaffUsername, cfg.StaffPassword, RoleStaff); err != nil {
			return nil, fmt.Errorf("staff account: %w", err)
		}
	}

	// Compared against when the username is unknown so both paths pay for
	// one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("guesthouse-dummy-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	c.dummyHash = dummy

	return c, nil
}

func (c *Credentials) add(username, password, role string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	c.accounts = append(c.accounts, account{username: username, passwordHash: hash, role: role})
	return nil
}

// Authenticate returns the role of the matching account.
func (c *Credentials) Authenticate(username, password string) (string, error) {
	var match *account
	for i := range c.accounts {
		if subtle.ConstantTimeCompare([]byte(username), []byte(c.accounts[i].username)) == 1 {
			match = &c.accounts[i]
		}
	}

	if match == nil {
		_ = bcrypt.CompareHashAndPassword(c.dummyHash, []byte(password)) //nolint:errcheck // timing only
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(match.passwordHash, []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return match.role, nil
}
