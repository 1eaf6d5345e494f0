// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

/*
Package supervisor runs the long-lived Guesthouse services under suture v4.

# Overview

Services are grouped into three layers so a failure in one does not take the
others down:

	RootSupervisor ("guesthouse")
	├── DataSupervisor ("data-layer")
	│   └── BackupService (if BACKUP_ENABLED)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff once FailureThreshold failures
accumulate (decaying at FailureDecay per second). Supervisor events go
through sutureslog onto the zerolog bridge in internal/logging, so restarts
show up in the same JSON log stream as everything else.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.Add(supervisor.LayerMessaging, services.NewWebSocketHubService(hub))
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := tree.ServeBackground(ctx)

Cancelling the context stops every service; UnstoppedServiceReport lists the
ones that missed ShutdownTimeout.
*/
package supervisor
