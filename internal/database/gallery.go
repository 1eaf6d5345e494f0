// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package database

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/tomtom215/guesthouse/internal/models"
)

// CreateGalleryItem stores an item whose file is already uploaded.
func (d *DB) CreateGalleryItem(ctx context.Context, item *models.GalleryItem) (*models.GalleryItem, error) {
	now := d.now()
	created := *item
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now

	err := d.update(ctx, func(txn *badger.Txn) error {
		return putDoc(txn, galleryPrefix+created.ID, &created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetGalleryItem returns one gallery item.
func (d *DB) GetGalleryItem(ctx context.Context, id string) (*models.GalleryItem, error) {
	var item *models.GalleryItem
	err := d.view(ctx, func(txn *badger.Txn) error {
		var err error
		item, err = getDoc[models.GalleryItem](txn, galleryPrefix+id)
		return err
	})
	return item, err
}

// ListGallery returns gallery items by position, oldest first within a position.
func (d *DB) ListGallery(ctx context.Context) ([]models.GalleryItem, error) {
	var items []models.GalleryItem
	err := d.view(ctx, func(txn *badger.Txn) error {
		var err error
		items, err = listDocs[models.GalleryItem](txn, galleryPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// UpdateGalleryItem changes title, caption and position.
func (d *DB) UpdateGalleryItem(ctx context.Context, id string, req *models.GalleryItemRequest) (*models.GalleryItem, error) {
	var item *models.GalleryItem
	err := d.update(ctx, func(txn *badger.Txn) error {
		var err error
		item, err = getDoc[models.GalleryItem](txn, galleryPrefix+id)
		if err != nil {
			return err
		}
		req.Apply(item)
		item.UpdatedAt = d.now()
		return putDoc(txn, galleryPrefix+id, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteGalleryItem deletes an item and returns it so the caller can remove
// the file.
func (d *DB) DeleteGalleryItem(ctx context.Context, id string) (*models.GalleryItem, error) {
	var item *models.GalleryItem
	err := d.update(ctx, func(txn *badger.Txn) error {
		var err error
		item, err = getDoc[models.GalleryItem](txn, galleryPrefix+id)
		if err != nil {
			return err
		}
		return deleteDoc(txn, galleryPrefix+id)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
