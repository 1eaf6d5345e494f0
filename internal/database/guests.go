// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package database

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/guesthouse/internal/models"
)

// ListGuests flattens the guest lists of every house, or of one house when
// houseID is set, sorted by check-in.
func (d *DB) ListGuests(ctx context.Context, houseID string) ([]models.GuestView, error) {
	var houses []models.House
	err := d.view(ctx, func(txn *badger.Txn) error {
		if houseID != "" {
			h, err := getDoc[models.House](txn, housePrefix+houseID)
			if err != nil {
				return err
			}
			houses = []models.House{*h}
			return nil
		}
		var err error
		houses, err = listDocs[models.House](txn, housePrefix)
		return err
	})
	if err != nil {
		return nil, err
	}

	guests := make([]models.GuestView, 0)
	for _, h := range houses {
		for _, g := range h.Guests {
			guests = append(guests, models.GuestView{HouseID: h.ID, HouseName: h.Name, GuestEntry: g})
		}
	}
	sort.SliceStable(guests, func(i, j int) bool {
		if guests[i].CheckIn != guests[j].CheckIn {
			return guests[i].CheckIn < guests[j].CheckIn
		}
		return guests[i].Name < guests[j].Name
	})
	return guests, nil
}

// UpdateGuest applies an admin patch to one guest entry. A phone change is
// mirrored onto the booking so both documents agree.
func (d *DB) UpdateGuest(ctx context.Context, houseID, bookingID string, patch *models.GuestPatch) (*models.GuestEntry, error) {
	var entry models.GuestEntry
	err := d.update(ctx, func(txn *badger.Txn) error {
		h, err := getDoc[models.House](txn, housePrefix+houseID)
		if err != nil {
			return err
		}
		idx := h.GuestIndex(bookingID)
		if idx < 0 {
			return ErrNotFound
		}
		patch.Apply(&h.Guests[idx])
		now := d.now()
		h.UpdatedAt = now
		entry = h.Guests[idx]
		if err := putDoc(txn, housePrefix+houseID, h); err != nil {
			return err
		}

		if patch.Phone == nil {
			return nil
		}
		b, err := getDoc[models.Booking](txn, bookingPrefix+bookingID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		b.Phone = *patch.Phone
		b.UpdatedAt = now
		return putDoc(txn, bookingPrefix+bookingID, b)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Availability returns the booked ranges of a house that end after from
// (YYYY-MM-DD, empty for all), without personal data.
func (d *DB) Availability(ctx context.Context, houseID, from string) ([]models.BookedRange, error) {
	h, err := d.GetHouse(ctx, houseID)
	if err != nil {
		return nil, err
	}

	ranges := make([]models.BookedRange, 0, len(h.Guests))
	for _, g := range h.Guests {
		if from != "" && g.CheckOut <= from {
			continue
		}
		ranges = append(ranges, models.BookedRange{CheckIn: g.CheckIn, CheckOut: g.CheckOut})
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].CheckIn < ranges[j].CheckIn })
	return ranges, nil
}
