// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/tomtom215/guesthouse/internal/models"
)

// NewBookingAttachment describes an already uploaded booking attachment.
type NewBookingAttachment struct {
	Key         string
	ContentType string
}

// CreateBooking stores a pending booking.
func (d *DB) CreateBooking(ctx context.Context, req *models.BookingRequest, att *NewBookingAttachment) (*models.Booking, error) {
	now := d.now()
	b := &models.Booking{
		ID:        uuid.NewString(),
		Status:    models.BookingPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.Apply(b)
	if att != nil {
		b.AttachmentKey = att.Key
		b.AttachmentType = att.ContentType
	}

	err := d.update(ctx, func(txn *badger.Txn) error {
		return putDoc(txn, bookingPrefix+b.ID, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBooking returns one booking.
func (d *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var b *models.Booking
	err := d.view(ctx, func(txn *badger.Txn) error {
		var err error
		b, err = getDoc[models.Booking](txn, bookingPrefix+id)
		return err
	})
	return b, err
}

// ListBookings returns bookings matching filter sorted by check-in, then
// creation time.
func (d *DB) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	var all []models.Booking
	err := d.view(ctx, func(txn *badger.Txn) error {
		var err error
		all, err = listDocs[models.Booking](txn, bookingPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := all[:0]
	for i := range all {
		if filter.Match(&all[i]) {
			out = append(out, all[i])
		}
	}
	sortBookings(out)
	return out, nil
}

func sortBookings(bookings []models.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if bookings[i].CheckIn != bookings[j].CheckIn {
			return bookings[i].CheckIn < bookings[j].CheckIn
		}
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
}

// UpdateBooking edits a pending booking. Assigned bookings are frozen because
// their data is copied into the house guest list.
func (d *DB) UpdateBooking(ctx context.Context, id string, req *models.BookingRequest) (*models.Booking, error) {
	var b *models.Booking
	err := d.update(ctx, func(txn *badger.Txn) error {
		var err error
		b, err = getDoc[models.Booking](txn, bookingPrefix+id)
		if err != nil {
			return err
		}
		if b.Status != models.BookingPending {
			return ErrBookingAssigned
		}
		req.Apply(b)
		b.UpdatedAt = d.now()
		return putDoc(txn, bookingPrefix+id, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// AssignBooking moves a pending booking into a house's guest list.
//
// In one transaction it checks that the booking is pending, that the party
// fits the house capacity and that the stay does not overlap any guest entry
// already in the house, then appends the entry and marks the booking assigned.
func (d *DB) AssignBooking(ctx context.Context, bookingID, houseID string) (*models.Booking, *models.House, error) {
	var (
		b *models.Booking
		h *models.House
	)
	err := d.update(ctx, func(txn *badger.Txn) error {
		var err error
		b, err = getDoc[models.Booking](txn, bookingPrefix+bookingID)
		if err != nil {
			return fmt.Errorf("booking: %w", err)
		}
		if b.Status != models.BookingPending {
			return ErrBookingAssigned
		}
		h, err = getDoc[models.House](txn, housePrefix+houseID)
		if err != nil {
			return fmt.Errorf("house: %w", err)
		}
		if b.NumGuests > h.Capacity {
			return ErrCapacityExceeded
		}
		if h.GuestIndex(b.ID) >= 0 {
			return ErrBookingAssigned
		}

		stay, err := b.Stay()
		if err != nil {
			return err
		}
		for _, g := range h.Guests {
			existing, err := g.Stay()
			if err != nil {
				return fmt.Errorf("guest entry %s: %w", g.BookingID, err)
			}
			if stay.Overlaps(existing) {
				return ErrDateConflict
			}
		}

		now := d.now()
		h.Guests = append(h.Guests, b.GuestEntry(now))
		h.UpdatedAt = now
		b.Status = models.BookingAssigned
		b.HouseID = h.ID
		b.AssignedAt = &now
		b.UpdatedAt = now

		if err := putDoc(txn, housePrefix+h.ID, h); err != nil {
			return err
		}
		return putDoc(txn, bookingPrefix+b.ID, b)
	})
	if err != nil {
		return nil, nil, err
	}
	return b, h, nil
}

// DeleteBooking deletes a booking and, when it is assigned, removes its guest
// entry from the house in the same transaction. The deleted booking is
// returned so the caller can remove its attachment from object storage.
func (d *DB) DeleteBooking(ctx context.Context, id string) (*models.Booking, error) {
	var b *models.Booking
	err := d.update(ctx, func(txn *badger.Txn) error {
		var err error
		b, err = getDoc[models.Booking](txn, bookingPrefix+id)
		if err != nil {
			return err
		}

		if b.HouseID != "" {
			h, err := getDoc[models.House](txn, housePrefix+b.HouseID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
			if h != nil {
				if idx := h.GuestIndex(b.ID); idx >= 0 {
					h.Guests = append(h.Guests[:idx], h.Guests[idx+1:]...)
					h.UpdatedAt = d.now()
					if err := putDoc(txn, housePrefix+h.ID, h); err != nil {
						return err
					}
				}
			}
		}

		return deleteDoc(txn, bookingPrefix+id)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
