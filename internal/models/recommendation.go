// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package models

import "time"

// Recommendation categories.
const (
	CategoryRestaurant = "restaurant"
	CategoryActivity   = "activity"
	CategoryBeach      = "beach"
	CategoryShopping   = "shopping"
	CategoryTransport  = "transport"
	CategorySight      = "sight"
	CategoryOther      = "other"
)

// Categories lists the recommendation categories in display order.
var Categories = []string{
	CategoryRestaurant,
	CategoryActivity,
	CategoryBeach,
	CategoryShopping,
	CategoryTransport,
	CategorySight,
	CategoryOther,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Recommendation is a local tip shown to guests.
type Recommendation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	URL         string    `json:"url,omitempty"`
	MapURL      string    `json:"map_url,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecommendationRequest is the body of recommendation create and update calls.
type RecommendationRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Category    string `json:"category" validate:"required,oneof=restaurant activity beach shopping transport sight other"`
	Description string `json:"description" validate:"max=2000"`
	Address     string `json:"address" validate:"max=300"`
	URL         string `json:"url" validate:"omitempty,url,max=2048"`
	MapURL      string `json:"map_url" validate:"omitempty,url,max=2048"`
	Position    int    `json:"position" validate:"min=0,max=100000"`
}

// Apply copies the request fields onto r.
func (req *RecommendationRequest) Apply(r *Recommendation) {
	r.Name = req.Name
	r.Category = req.Category
	r.Description = req.Description
	r.Address = req.Address
	r.URL = req.URL
	r.MapURL = req.MapURL
	r.Position = req.Position
}
