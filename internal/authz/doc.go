// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package authz decides what an authenticated role may do on the admin
// surface, using a Casbin RBAC model embedded in the binary.
//
// Requests are checked as (role, request path, action) where action is
// "read" for GET, HEAD and OPTIONS and "write" for everything else. Paths
// are matched with keyMatch2, so policy lines can use :id segments and
// trailing wildcards.
//
// Roles:
//
//	admin  everything
//	staff  read everything except the activity log; write bookings, guest
//	       entries and new gallery uploads. Houses, recommendations and
//	       backups stay admin-only.
//
// Denied requests are written to the activity log when SetAuditLogger has
// been called.
//
// Decisions are cached per (role, path, action) for a short TTL.
package authz
