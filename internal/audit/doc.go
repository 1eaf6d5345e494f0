// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package audit keeps the activity log: who logged in, who was refused, and
// who changed houses, bookings, guest entries, the gallery or
// recommendations. Guest records are personal data, so every change to them
// is attributable to an account, a source address and a request id.
//
// # Event Types
//
// Authentication and authorization:
//   - auth.login, auth.login_failed, auth.logout
//   - authz.denied
//
// Content changes:
//   - booking.created (public form), booking.updated, booking.assigned,
//     booking.deleted, booking.attachment_viewed
//   - guest.updated
//   - house.created, house.updated, house.deleted
//   - gallery.changed, recommendation.changed
//   - data.backup
//
// # Storage
//
// BadgerStore writes entries into the document store's BadgerDB under the
// "audit:" prefix, keyed by timestamp so queries walk newest first without
// an index. Entries are therefore included in document store backups.
// MemoryStore is a bounded in-memory store for tests.
//
// # Usage
//
//	logger := audit.NewLogger(audit.NewBadgerStore(db.Raw()), audit.DefaultConfig())
//	defer logger.Close()
//	tree.Add(supervisor.LayerData, logger) // retention cleanup
//
//	logger.LogChange(ctx, audit.EventTypeBookingAssigned,
//	    audit.UserActor("admin", "admin"), audit.SourceFromRequest(r),
//	    audit.Target{Type: "booking", ID: bookingID}, "Booking assigned", nil)
//
// Writes are asynchronous and never block a request. When the buffer is
// full the entry is dropped and a warning is logged.
package audit
