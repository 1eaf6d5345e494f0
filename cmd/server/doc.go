// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

/*
Package main is the entry point for the Guesthouse server.

Guesthouse serves a public booking and information surface (houses,
availability, gallery, local recommendations, booking requests) and an
authenticated admin surface for managing houses, guests, bookings, the
gallery and recommendations.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("guesthouse")
	├── DataSupervisor ("data-layer")
	│   ├── Backup scheduler (BACKUP_ENABLED=true)
	│   └── Activity log retention (AUDIT_ENABLED=true)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub (admin live updates)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON/console output modes
 3. Document store: BadgerDB
 4. Object storage: local filesystem or S3
 5. Authentication: bcrypt credentials and JWT sessions
 6. Authorization: Casbin RBAC (admin, staff)
 7. WebSocket Hub, Backup Manager and activity log
 8. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	DB_PATH=/data/guesthouse.db

	STORAGE_BACKEND=local        # local or s3
	STORAGE_LOCAL_PATH=/data/media
	S3_BUCKET=guesthouse-media
	S3_ENDPOINT=http://minio:9000
	S3_USE_PATH_STYLE=true

	JWT_SECRET=<32+ chars>
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=<8+ chars>
	STAFF_USERNAME=reception     # optional second account with the staff role
	STAFF_PASSWORD=<8+ chars>

	BACKUP_DIR=/data/backups
	BACKUP_INTERVAL=24h
	BACKUP_RETENTION=7

	AUDIT_ENABLED=true
	AUDIT_RETENTION=2160h        # 90 days

# Signal Handling

On SIGINT or SIGTERM the supervisor tree stops the HTTP server (draining
in-flight requests up to SHUTDOWN_TIMEOUT), closes WebSocket clients and
stops the backup scheduler. Queued activity log entries are flushed
before the document store is closed. The document store is closed last.

# Restoring a Backup

Backups are restored offline with the badger CLI:

	badger restore --dir /data/guesthouse.db --backup-file /data/backups/guesthouse-20260101-030000.000.bak

# Usage

Development:

	export JWT_SECRET=$(openssl rand -base64 32)
	export ADMIN_PASSWORD=change-me-please
	export DB_PATH=./data/guesthouse.db STORAGE_LOCAL_PATH=./data/media BACKUP_DIR=./data/backups
	export LOG_FORMAT=console
	go run ./cmd/server
*/
package main
