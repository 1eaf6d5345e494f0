// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

/*
Package services adapts Guesthouse components to suture.Service.

Each wrapper turns a component's own lifecycle into the context-aware Serve
method suture expects and names itself through fmt.Stringer for the
supervisor's logs.

# Available Services

HTTPServerService (api layer):
  - Wraps *http.Server; ListenAndServe becomes Serve
  - Graceful Shutdown with a bounded timeout on cancellation
  - Listen errors are returned so the supervisor restarts with backoff

WebSocketHubService (messaging layer):
  - Wraps websocket.Hub.RunWithContext
  - Connected dashboards are closed when the hub stops

BackupService (data layer):
  - Wraps backup.Manager.Serve
  - Only added when backups are enabled

# Usage

	tree.Add(supervisor.LayerData, services.NewBackupService(backupMgr))
	tree.Add(supervisor.LayerMessaging, services.NewWebSocketHubService(hub))
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
*/
package services
