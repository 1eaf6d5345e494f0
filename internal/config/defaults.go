// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package config

import "time"

// defaultConfig is the bottom configuration layer. Secrets are left empty so
// Validate fails until the file or environment provides them.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path: "/data/guesthouse.db",
		},
		Storage: StorageConfig{
			Backend:           "local",
			LocalPath:         "/data/media",
			MaxUploadSize:     50 << 20, // gallery videos
			MaxAttachmentSize: 10 << 20,
			S3:                S3Config{Region: "us-east-1"},
		},
		Security: SecurityConfig{
			SessionTimeout:    24 * time.Hour,
			AdminUsername:     "admin",
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			LoginRateLimit:    5,
		},
		Backup: BackupConfig{
			Enabled:   true,
			Dir:       "/data/backups",
			Interval:  24 * time.Hour,
			Retention: 7,
		},
		Audit: AuditConfig{
			Enabled:    true,
			Retention:  90 * 24 * time.Hour,
			BufferSize: 1000,
		},
		Stats:   StatsConfig{CacheTTL: 5 * time.Minute},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}
