// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	// BookingPending bookings wait for the admin to pick a house.
	BookingPending BookingStatus = "pending"

	// BookingAssigned bookings have a guest entry in HouseID's guest list.
	BookingAssigned BookingStatus = "assigned"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	return s == BookingPending || s == BookingAssigned
}

// Booking is a stay request submitted from the public page.
type Booking struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone,omitempty"`
	NumGuests      int           `json:"num_guests"`
	CheckIn        string        `json:"check_in"`
	CheckOut       string        `json:"check_out"`
	Message        string        `json:"message,omitempty"`
	Status         BookingStatus `json:"status"`
	HouseID        string        `json:"house_id,omitempty"`
	AttachmentKey  string        `json:"attachment_key,omitempty"`
	AttachmentType string        `json:"attachment_type,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	AssignedAt     *time.Time    `json:"assigned_at,omitempty"`
}

// Stay parses the booking's dates.
func (b *Booking) Stay() (Stay, error) {
	return ParseStay(b.CheckIn, b.CheckOut)
}

// GuestEntry builds the house guest list entry for this booking.
func (b *Booking) GuestEntry(now time.Time) GuestEntry {
	return GuestEntry{
		BookingID: b.ID,
		Name:      b.Name,
		Email:     b.Email,
		Phone:     b.Phone,
		NumGuests: b.NumGuests,
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
		AddedAt:   now,
	}
}

// BookingRequest is the public booking form and the admin edit body.
type BookingRequest struct {
	Name      string `json:"name" validate:"required,notblank,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"max=30"`
	NumGuests int    `json:"num_guests" validate:"min=1,max=50"`
	CheckIn   string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut  string `json:"check_out" validate:"required,datetime=2006-01-02,date_after=CheckIn"`
	Message   string `json:"message" validate:"max=2000"`
}

// Apply copies the request fields onto b.
func (r *BookingRequest) Apply(b *Booking) {
	b.Name = r.Name
	b.Email = r.Email
	b.Phone = r.Phone
	b.NumGuests = r.NumGuests
	b.CheckIn = r.CheckIn
	b.CheckOut = r.CheckOut
	b.Message = r.Message
}

// BookingFilter narrows ListBookings. Zero values match everything.
type BookingFilter struct {
	Status  BookingStatus
	HouseID string
}

// Match reports whether b passes the filter.
func (f BookingFilter) Match(b *Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.HouseID != "" && b.HouseID != f.HouseID {
		return false
	}
	return true
}

// AssignRequest is the body of the assign call.
type AssignRequest struct {
	HouseID string `json:"house_id" validate:"required"`
}
