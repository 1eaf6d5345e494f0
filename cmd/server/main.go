// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/guesthouse/internal/api"
	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/auth"
	"github.com/tomtom215/guesthouse/internal/authz"
	"github.com/tomtom215/guesthouse/internal/backup"
	"github.com/tomtom215/guesthouse/internal/config"
	"github.com/tomtom215/guesthouse/internal/database"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
	"github.com/tomtom215/guesthouse/internal/storage"
	"github.com/tomtom215/guesthouse/internal/supervisor"
	"github.com/tomtom215/guesthouse/internal/supervisor/services"
	ws "github.com/tomtom215/guesthouse/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("storage_backend", cfg.Storage.Backend).
		Msg("Starting Guesthouse with supervisor tree")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(database.Config{
		Path:       cfg.Database.Path,
		InMemory:   cfg.Database.InMemory,
		SyncWrites: cfg.Database.SyncWrites,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		fatalAfterClose(db, err, "Failed to initialize object storage")
	}
	logging.Info().Str("backend", store.Name()).Msg("Object storage initialized")

	credentials, err := auth.NewCredentials(&cfg.Security)
	if err != nil {
		fatalAfterClose(db, err, "Failed to load admin credentials")
	}
	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		fatalAfterClose(db, err, "Failed to initialize JWT manager")
	}
	authMiddleware := auth.NewMiddleware(jwtManager, cfg.Security.CookieSecure)

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		fatalAfterClose(db, err, "Failed to initialize authorization")
	}
	defer enforcer.Close()

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: CORS is configured with wildcard origin (CORS_ORIGINS=*)")
		logging.Warn().Msg("  Cross-origin requests will not carry the admin session cookie.")
		logging.Warn().Msg("  RECOMMENDED: Set the public site origin in production:")
		logging.Warn().Msg("    CORS_ORIGINS=https://yourguesthouse.example")
		logging.Warn().Msg("============================================================")
	}
	if cfg.IsProduction() && !cfg.Security.CookieSecure {
		logging.Warn().Msg("COOKIE_SECURE=false in production: session cookies are sent over plain HTTP")
	}

	wsHub := ws.NewHub()

	var backupManager *backup.Manager
	if cfg.Backup.Dir != "" {
		backupManager, err = backup.NewManager(db.Raw(), &cfg.Backup)
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to initialize backup manager, backups disabled")
			backupManager = nil
		} else {
			logging.Info().
				Str("dir", cfg.Backup.Dir).
				Bool("schedule_enabled", cfg.Backup.Enabled).
				Dur("interval", cfg.Backup.Interval).
				Int("retention", cfg.Backup.Retention).
				Msg("Backup manager initialized")
		}
	}

	var activity *audit.Logger
	if cfg.Audit.Enabled {
		activity = audit.NewLogger(audit.NewBadgerStore(db.Raw()), audit.Config{
			Enabled:         true,
			Retention:       cfg.Audit.Retention,
			CleanupInterval: 24 * time.Hour,
			BufferSize:      cfg.Audit.BufferSize,
		})
		defer func() { _ = activity.Close() }()
		logging.Info().Dur("retention", cfg.Audit.Retention).Msg("Activity log enabled")
	}

	handler := api.NewHandler(api.Dependencies{
		Config:      cfg,
		DB:          db,
		Store:       store,
		Credentials: credentials,
		JWT:         jwtManager,
		AuthMW:      authMiddleware,
		Hub:         wsHub,
		Backups:     backupManager,
		Audit:       activity,
		Version:     version,
	})
	defer handler.Close()

	router := api.NewRouter(handler, enforcer)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// Bridges zerolog to slog for sutureslog
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		fatalAfterClose(db, err, "Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	if backupManager != nil && cfg.Backup.Enabled {
		tree.Add(supervisor.LayerData, services.NewBackupService(backupManager))
	}
	if activity != nil {
		tree.Add(supervisor.LayerData, activity)
	}
	tree.Add(supervisor.LayerMessaging, services.NewWebSocketHubService(wsHub))
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	// === START SUPERVISOR TREE ===

	logging.Info().
		Strs("data", tree.Services(supervisor.LayerData)).
		Strs("messaging", tree.Services(supervisor.LayerMessaging)).
		Strs("api", tree.Services(supervisor.LayerAPI)).
		Str("addr", server.Addr).
		Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// errCh delivers exactly one result when the tree stops.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
		cancel()
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// fatalAfterClose closes the document store before exiting, since deferred
// calls do not run after os.Exit.
func fatalAfterClose(db *database.DB, err error, msg string) {
	if closeErr := db.Close(); closeErr != nil {
		logging.Error().Err(closeErr).Msg("Error closing document store")
	}
	logging.Error().Err(err).Msg(msg)
	os.Exit(1)
}
