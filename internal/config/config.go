// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package config loads Guesthouse configuration.
//
// Loading order (later layers override earlier ones):
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, config.yaml, /etc/guesthouse/config.yaml)
//  3. Environment variables (HTTP_PORT, DB_PATH, JWT_SECRET, ...)
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	db, err := database.New(database.Config{Path: cfg.Database.Path})
package config

import "time"

// Config is the complete service configuration. A field tagged env can be
// set from that environment variable.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Storage  StorageConfig  `koanf:"storage"`
	Security SecurityConfig `koanf:"security"`
	Backup   BackupConfig   `koanf:"backup"`
	Audit    AuditConfig    `koanf:"audit"`
	Stats    StatsConfig    `koanf:"stats"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port" env:"HTTP_PORT"`
	Host            string        `koanf:"host" env:"HTTP_HOST"`
	Timeout         time.Duration `koanf:"timeout" env:"HTTP_TIMEOUT"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	Environment     string        `koanf:"environment" env:"ENVIRONMENT"` // development, staging, production
}

// DatabaseConfig holds document store settings.
type DatabaseConfig struct {
	Path       string `koanf:"path" env:"DB_PATH"`
	InMemory   bool   `koanf:"in_memory" env:"DB_IN_MEMORY"` // tests and demos only; nothing is persisted
	SyncWrites bool   `koanf:"sync_writes" env:"DB_SYNC_WRITES"`
}

// StorageConfig selects and configures the object storage backend.
type StorageConfig struct {
	Backend   string `koanf:"backend" env:"STORAGE_BACKEND"` // local or s3
	LocalPath string `koanf:"local_path" env:"STORAGE_LOCAL_PATH"`

	// MaxUploadSize bounds gallery and house photo uploads in bytes.
	MaxUploadSize int64 `koanf:"max_upload_size" env:"MAX_UPLOAD_SIZE"`

	// MaxAttachmentSize bounds booking attachments in bytes.
	MaxAttachmentSize int64 `koanf:"max_attachment_size" env:"MAX_ATTACHMENT_SIZE"`

	S3 S3Config `koanf:"s3"`
}

// S3Config configures the S3 backend. Endpoint and UsePathStyle are needed for
// MinIO and other S3-compatible servers.
type S3Config struct {
	Bucket          string `koanf:"bucket" env:"S3_BUCKET"`
	Region          string `koanf:"region" env:"S3_REGION"`
	Endpoint        string `koanf:"endpoint" env:"S3_ENDPOINT"`
	AccessKeyID     string `koanf:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `koanf:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `koanf:"use_path_style" env:"S3_USE_PATH_STYLE"`
}

// SecurityConfig holds authentication, CORS and rate limit settings.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret" env:"JWT_SECRET"`
	SessionTimeout time.Duration `koanf:"session_timeout" env:"SESSION_TIMEOUT"`
	AdminUsername  string        `koanf:"admin_username" env:"ADMIN_USERNAME"`
	AdminPassword  string        `koanf:"admin_password" env:"ADMIN_PASSWORD"`

	// Staff account is optional; leave StaffUsername empty to disable it.
	StaffUsername string `koanf:"staff_username" env:"STAFF_USERNAME"`
	StaffPassword string `koanf:"staff_password" env:"STAFF_PASSWORD"`

	CookieSecure bool `koanf:"cookie_secure" env:"COOKIE_SECURE"`

	CORSOrigins       []string      `koanf:"cors_origins" env:"CORS_ORIGINS"`
	RateLimitRequests int           `koanf:"rate_limit_requests" env:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" env:"RATE_LIMIT_WINDOW"`
	LoginRateLimit    int           `koanf:"login_rate_limit" env:"LOGIN_RATE_LIMIT"` // attempts per minute per IP
}

// BackupConfig controls scheduled document store backups.
type BackupConfig struct {
	Enabled   bool          `koanf:"enabled" env:"BACKUP_ENABLED"`
	Dir       string        `koanf:"dir" env:"BACKUP_DIR"`
	Interval  time.Duration `koanf:"interval" env:"BACKUP_INTERVAL"`
	Retention int           `koanf:"retention" env:"BACKUP_RETENTION"` // number of newest backups kept
}

// AuditConfig controls the activity log of logins and admin changes.
type AuditConfig struct {
	Enabled    bool          `koanf:"enabled" env:"AUDIT_ENABLED"`
	Retention  time.Duration `koanf:"retention" env:"AUDIT_RETENTION"`
	BufferSize int           `koanf:"buffer_size" env:"AUDIT_BUFFER_SIZE"`
}

// StatsConfig controls dashboard statistics caching.
type StatsConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl" env:"STATS_CACHE_TTL"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" env:"LOG_LEVEL"`

	// Format is json or console.
	Format string `koanf:"format" env:"LOG_FORMAT"`

	// Caller adds file:line to log entries.
	Caller bool `koanf:"caller" env:"LOG_CALLER"`
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
