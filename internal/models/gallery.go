// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package models

import "time"

// GalleryItem is an image or video on the public page.
type GalleryItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Caption     string    `json:"caption,omitempty"`
	FileKey     string    `json:"file_key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GalleryItemRequest holds the editable metadata of a gallery item.
type GalleryItemRequest struct {
	Title    string `json:"title" validate:"required,notblank,max=200"`
	Caption  string `json:"caption" validate:"max=1000"`
	Position int    `json:"position" validate:"min=0,max=100000"`
}

// Apply copies the request fields onto g.
func (r *GalleryItemRequest) Apply(g *GalleryItem) {
	g.Title = r.Title
	g.Caption = r.Caption
	g.Position = r.Position
}
