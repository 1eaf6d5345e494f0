// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package models

import "time"

// House is a rentable unit. Guests is only exposed on admin endpoints; use
// Public before returning a house to anonymous callers.
type House struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	Capacity      int          `json:"capacity"`
	Bedrooms      int          `json:"bedrooms"`
	PricePerNight float64      `json:"price_per_night"`
	Amenities     []string     `json:"amenities,omitempty"`
	PhotoKeys     []string     `json:"photo_keys,omitempty"`
	Guests        []GuestEntry `json:"guests,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Public returns a copy of the house without the guest list.
func (h House) Public() House {
	h.Guests = nil
	return h
}

// GuestIndex returns the position of the entry created by bookingID, or -1.
func (h *House) GuestIndex(bookingID string) int {
	for i := range h.Guests {
		if h.Guests[i].BookingID == bookingID {
			return i
		}
	}
	return -1
}

// GuestEntry is one assigned stay in a house's guest list.
type GuestEntry struct {
	BookingID string    `json:"booking_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	NumGuests int       `json:"num_guests"`
	CheckIn   string    `json:"check_in"`
	CheckOut  string    `json:"check_out"`
	Notes     string    `json:"notes,omitempty"`
	CheckedIn bool      `json:"checked_in"`
	AddedAt   time.Time `json:"added_at"`
}

// Stay parses the entry's dates.
func (g GuestEntry) Stay() (Stay, error) {
	return ParseStay(g.CheckIn, g.CheckOut)
}

// GuestView is a guest entry flattened with the house it belongs to.
type GuestView struct {
	HouseID   string `json:"house_id"`
	HouseName string `json:"house_name"`
	GuestEntry
}

// BookedRange is a booked stay without personal data, for the public
// availability calendar.
type BookedRange struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

// HouseRequest is the body of house create and update calls.
type HouseRequest struct {
	Name          string   `json:"name" validate:"required,notblank,max=100"`
	Description   string   `json:"description" validate:"max=5000"`
	Capacity      int      `json:"capacity" validate:"min=1,max=50"`
	Bedrooms      int      `json:"bedrooms" validate:"min=0,max=50"`
	PricePerNight float64  `json:"price_per_night" validate:"gte=0"`
	Amenities     []string `json:"amenities" validate:"max=50,dive,max=100"`
}

// Apply copies the editable fields onto h. Guests and photos are untouched.
func (r *HouseRequest) Apply(h *House) {
	h.Name = r.Name
	h.Description = r.Description
	h.Capacity = r.Capacity
	h.Bedrooms = r.Bedrooms
	h.PricePerNight = r.PricePerNight
	h.Amenities = r.Amenities
}

// GuestPatch updates admin-editable parts of a guest entry. Nil fields are
// left unchanged.
type GuestPatch struct {
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	CheckedIn *bool   `json:"checked_in"`
}

// Apply copies the non-nil fields onto g.
func (p *GuestPatch) Apply(g *GuestEntry) {
	if p.Notes != nil {
		g.Notes = *p.Notes
	}
	if p.Phone != nil {
		g.Phone = *p.Phone
	}
	if p.CheckedIn != nil {
		g.CheckedIn = *p.CheckedIn
	}
}
