// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	minJWTSecretLength     = 32
	minAdminPasswordLength = 8

	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour

	minBackupInterval = time.Minute
	minAuditRetention = 24 * time.Hour
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateStorage,
		c.validateSecurity,
		c.validateBackup,
		c.validateAudit,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.Database.InMemory && strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DB_PATH is required unless DB_IN_MEMORY=true")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "local":
		if strings.TrimSpace(c.Storage.LocalPath) == "" {
			return fmt.Errorf("STORAGE_LOCAL_PATH is required for the local storage backend")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 storage backend")
		}
		if (c.Storage.S3.AccessKeyID == "") != (c.Storage.S3.SecretAccessKey == "") {
			return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be 'local' or 's3', got %q", c.Storage.Backend)
	}

	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	if c.Storage.MaxAttachmentSize <= 0 {
		return fmt.Errorf("MAX_ATTACHMENT_SIZE must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if len(s.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if s.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if strings.TrimSpace(s.AdminUsername) == "" {
		return fmt.Errorf("ADMIN_USERNAME is required")
	}
	if len(s.AdminPassword) < minAdminPasswordLength {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", minAdminPasswordLength)
	}
	if s.StaffUsername != "" {
		if s.StaffUsername == s.AdminUsername {
			return fmt.Errorf("STAFF_USERNAME must differ from ADMIN_USERNAME")
		}
		if len(s.StaffPassword) < minAdminPasswordLength {
			return fmt.Errorf("STAFF_PASSWORD must be at least %d characters", minAdminPasswordLength)
		}
	}

	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed in production; " +
			"set specific origins, e.g. CORS_ORIGINS=https://guesthouse.example.com")
	}

	if s.RateLimitRequests < minRateLimitRequests || s.RateLimitRequests > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if s.RateLimitWindow < minRateLimitWindow || s.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	if s.LoginRateLimit < 1 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) validateBackup() error {
	if !c.Backup.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Backup.Dir) == "" {
		return fmt.Errorf("BACKUP_DIR is required when backups are enabled")
	}
	if c.Backup.Interval < minBackupInterval {
		return fmt.Errorf("BACKUP_INTERVAL must be at least %v", minBackupInterval)
	}
	if c.Backup.Retention < 1 {
		return fmt.Errorf("BACKUP_RETENTION must be at least 1")
	}
	return nil
}

func (c *Config) validateAudit() error {
	if !c.Audit.Enabled {
		return nil
	}
	if c.Audit.Retention < minAuditRetention {
		return fmt.Errorf("AUDIT_RETENTION must be at least %v", minAuditRetention)
	}
	if c.Audit.BufferSize < 1 {
		return fmt.Errorf("AUDIT_BUFFER_SIZE must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not valid", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard CORS setting, which is allowed
// outside production but worth a startup warning.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
