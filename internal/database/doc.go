// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package database is the Guesthouse document store.
//
// Documents are JSON values in an embedded BadgerDB under one key prefix per
// collection:
//
//	house:<id>           models.House (including its guest list)
//	booking:<id>         models.Booking
//	gallery:<id>         models.GalleryItem
//	recommendation:<id>  models.Recommendation
//
// Every operation runs in a single Badger transaction, so workflows that touch
// more than one document commit or fail as a unit:
//
//   - AssignBooking checks capacity and date overlap, appends the guest entry to
//     the house and marks the booking assigned.
//   - DeleteBooking removes the guest entry from the house and deletes the
//     booking. The caller deletes the attachment from object storage after the
//     commit.
//
// Badger uses optimistic concurrency: when two transactions write the same
// document, the second commit fails and is reported as
// ErrConcurrentModification. Callers may retry; nothing here retries for them.
package database
