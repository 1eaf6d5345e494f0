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

// CreateRecommendation stores a new recommendation.
func (d *DB) CreateRecommendation(ctx context.Context, req *models.RecommendationRequest) (*models.Recommendation, error) {
	now := d.now()
	r := &models.Recommendation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.Apply(r)

	err := d.update(ctx, func(txn *badger.Txn) error {
		return putDoc(txn, recommendationPrefix+r.ID, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecommendation returns one recommendation.
func (d *DB) GetRecommendation(ctx context.Context, id string) (*models.Recommendation, error) {
	var r *models.Recommendation
	err := d.view(ctx, func(txn *badger.Txn) error {
		var err error
		r, err = getDoc[models.Recommendation](txn, recommendationPrefix+id)
		return err
	})
	return r, err
}

// ListRecommendations returns recommendations, optionally of one category,
// sorted by category, position and name.
func (d *DB) ListRecommendations(ctx context.Context, category string) ([]models.Recommendation, error) {
	var all []models.Recommendation
	err := d.view(ctx, func(txn *badger.Txn) error {
		var err error
		all, err = listDocs[models.Recommendation](txn, recommendationPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := all[:0]
	for _, r := range all {
		if category == "" || r.Category == category {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return categoryRank(out[i].Category) < categoryRank(out[j].Category)
		}
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func categoryRank(c string) int {
	for i, known := range models.Categories {
		if c == known {
			return i
		}
	}
	return len(models.Categories)
}

// UpdateRecommendation replaces the editable fields of a recommendation.
func (d *DB) UpdateRecommendation(ctx context.Context, id string, req *models.RecommendationRequest) (*models.Recommendation, error) {
	var r *models.Recommendation
	err := d.update(ctx, func(txn *badger.Txn) error {
		var err error
		r, err = getDoc[models.Recommendation](txn, recommendationPrefix+id)
		if err != nil {
			return err
		}
		req.Apply(r)
		r.UpdatedAt = d.now()
		return putDoc(txn, recommendationPrefix+id, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRecommendation removes a recommendation.
func (d *DB) DeleteRecommendation(ctx context.Context, id string) error {
	return d.update(ctx, func(txn *badger.Txn) error {
		if _, err := getDoc[models.Recommendation](txn, recommendationPrefix+id); err != nil {
			return err
		}
		return deleteDoc(txn, recommendationPrefix+id)
	})
}
