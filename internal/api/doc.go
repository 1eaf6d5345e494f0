// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

/*
Package api provides the HTTP REST API of Guesthouse.

Routes are served by a chi router built in SetupChi and fall into four
groups:

  - /api/v1/health: liveness and readiness probes
  - /api/v1/auth: login, logout and the current account
  - /api/v1/public: houses without guest data, availability, gallery,
    recommendations, booking submission and public media
  - /api/v1/admin: JWT-authenticated and casbin-authorized management of
    houses, guests, bookings, gallery, recommendations, statistics, backups,
    the activity log and the live event WebSocket

Prometheus metrics are exposed on /metrics.

Every JSON response uses the same envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "...", "request_id": "..."}}

Document store errors map to statuses in respondStoreError: missing
documents are 404, workflow conflicts such as overlapping stays are 409, a
party larger than the house is 422 and an open storage circuit breaker is
503.

Uploads are multipart. Their content type is sniffed from the bytes and
checked against the allowed families before anything is written to object
storage; the client-supplied Content-Type is ignored. When the document write
that references a new object fails, the object is deleted again. When a
document deletion succeeds but the object deletion fails, the failure is only
logged.

Writes broadcast a live event to connected admin pages and invalidate the
cached statistics.
*/
package api
