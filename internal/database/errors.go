// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package database

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBookingAssigned indicates an operation that requires a pending booking.
	ErrBookingAssigned = errors.New("booking is already assigned")

	// ErrCapacityExceeded indicates a party larger than the house capacity.
	ErrCapacityExceeded = errors.New("number of guests exceeds house capacity")

	// ErrDateConflict indicates a stay overlapping an existing guest entry.
	ErrDateConflict = errors.New("dates overlap an existing stay")

	// ErrHouseHasGuests indicates a house that still has guest entries.
	ErrHouseHasGuests = errors.New("house has assigned guests")

	// ErrConcurrentModification indicates a transaction that lost a write conflict.
	ErrConcurrentModification = errors.New("document was modified concurrently")
)

// txnErr maps Badger commit conflicts onto ErrConcurrentModification.
func txnErr(err error) error {
	if errors.Is(err, badger.ErrConflict) {
		return ErrConcurrentModification
	}
	return err
}
