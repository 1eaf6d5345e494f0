// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package database

import (
	"context"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/tomtom215/guesthouse/internal/models"
)

// CreateHouse stores a new house with an empty guest list.
func (d *DB) CreateHouse(ctx context.Context, req *models.HouseRequest) (*models.House, error) {
	now := d.now()
	h := &models.House{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.Apply(h)

	err := d.update(ctx, func(txn *badger.Txn) error {
		return putDoc(txn, housePrefix+h.ID, h)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GetHouse returns a house including its guest list.
func (d *DB) GetHouse(ctx context.Context, id string) (*models.House, error) {
	var h *models.House
	err := d.view(ctx, func(txn *badger.Txn) error {
		var err error
		h, err = getDoc[models.House](txn, housePrefix+id)
		return err
	})
	return h, err
}

// ListHouses returns all houses sorted by name.
func (d *DB) ListHouses(ctx context.Context) ([]models.House, error) {
	var houses []models.House
	err := d.view(ctx, func(txn *badger.Txn) error {
		var err error
		houses, err = listDocs[models.House](txn, housePrefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	sortHouses(houses)
	return houses, nil
}

func sortHouses(houses []models.House) {
	sort.SliceStable(houses, func(i, j int) bool {
		a, b := strings.ToLower(houses[i].Name), strings.ToLower(houses[j].Name)
		if a != b {
			return a < b
		}
		return houses[i].ID < houses[j].ID
	})
}

// UpdateHouse changes the editable fields of a house. The guest list and
// photos are preserved. Lowering the capacity below a party already assigned
// to the house fails with ErrCapacityExceeded.
func (d *DB) UpdateHouse(ctx context.Context, id string, req *models.HouseRequest) (*models.House, error) {
	var h *models.House
	err := d.update(ctx, func(txn *badger.Txn) error {
		var err error
		h, err = getDoc[models.House](txn, housePrefix+id)
		if err != nil {
			return err
		}
		for _, g := range h.Guests {
			if g.NumGuests > req.Capacity {
				return ErrCapacityExceeded
			}
		}
		req.Apply(h)
		h.UpdatedAt = d.now()
		return putDoc(txn, housePrefix+id, h)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// DeleteHouse removes a house that has no guests and returns it so the caller
// can delete its photos.
func (d *DB) DeleteHouse(ctx context.Context, id string) (*models.House, error) {
	var h *models.House
	err := d.update(ctx, func(txn *badger.Txn) error {
		var err error
		h, err = getDoc[models.House](txn, housePrefix+id)
		if err != nil {
			return err
		}
		if len(h.Guests) > 0 {
			return ErrHouseHasGuests
		}
		return deleteDoc(txn, housePrefix+id)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// AddHousePhoto appends a storage key to the house's photos.
func (d *DB) AddHousePhoto(ctx context.Context, id, key string) (*models.House, error) {
	var h *models.House
	err := d.update(ctx, func(txn *badger.Txn) error {
		var err error
		h, err = getDoc[models.House](txn, housePrefix+id)
		if err != nil {
			return err
		}
		h.PhotoKeys = append(h.PhotoKeys, key)
		h.UpdatedAt = d.now()
		return putDoc(txn, housePrefix+id, h)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// RemoveHousePhoto removes a storage key from the house's photos. It returns
// ErrNotFound when the house does not reference key.
func (d *DB) RemoveHousePhoto(ctx context.Context, id, key string) (*models.House, error) {
	var h *models.House
	err := d.update(ctx, func(txn *badger.Txn) error {
		var err error
		h, err = getDoc[models.House](txn, housePrefix+id)
		if err != nil {
			return err
		}
		idx := -1
		for i, k := range h.PhotoKeys {
			if k == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrNotFound
		}
		h.PhotoKeys = append(h.PhotoKeys[:idx], h.PhotoKeys[idx+1:]...)
		h.UpdatedAt = d.now()
		return putDoc(txn, housePrefix+id, h)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}
