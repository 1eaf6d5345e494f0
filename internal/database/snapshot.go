// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package database

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/guesthouse/internal/models"
)

// Snapshot is a consistent read of everything the statistics need.
type Snapshot struct {
	Houses          []models.House
	Bookings        []models.Booking
	GalleryItems    int
	Recommendations int
}

// Snapshot reads houses and bookings and counts the other collections in a
// single read transaction.
func (d *DB) Snapshot(ctx context.Context) (*Snapshot, error) {
	s := &Snapshot{}
	err := d.view(ctx, func(txn *badger.Txn) error {
		var err error
		if s.Houses, err = listDocs[models.House](txn, housePrefix); err != nil {
			return err
		}
		if s.Bookings, err = listDocs[models.Booking](txn, bookingPrefix); err != nil {
			return err
		}
		s.GalleryItems = countDocs(txn, galleryPrefix)
		s.Recommendations = countDocs(txn, recommendationPrefix)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortHouses(s.Houses)
	return s, nil
}
