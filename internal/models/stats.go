// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package models

import "time"

// MonthlyOccupancy tallies one calendar month.
type MonthlyOccupancy struct {
	Month           int     `json:"month"` // 1..12
	Bookings        int     `json:"bookings"`
	Guests          int     `json:"guests"`
	Nights          int     `json:"nights"`
	AvailableNights int     `json:"available_nights"`
	OccupancyRate   float64 `json:"occupancy_rate"`
}

// HouseOccupancy is one house's year.
type HouseOccupancy struct {
	HouseID       string               `json:"house_id"`
	HouseName     string               `json:"house_name"`
	Months        [12]MonthlyOccupancy `json:"months"`
	TotalNights   int                  `json:"total_nights"`
	OccupancyRate float64              `json:"occupancy_rate"`
}

// OccupancyReport covers every house for a year, with per-month totals.
type OccupancyReport struct {
	Year        int                  `json:"year"`
	Houses      []HouseOccupancy     `json:"houses"`
	Months      [12]MonthlyOccupancy `json:"months"`
	TotalNights int                  `json:"total_nights"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Summary holds the dashboard counters.
type Summary struct {
	Houses           int       `json:"houses"`
	TotalCapacity    int       `json:"total_capacity"`
	PendingBookings  int       `json:"pending_bookings"`
	AssignedBookings int       `json:"assigned_bookings"`
	CurrentGuests    int       `json:"current_guests"`
	UpcomingArrivals int       `json:"upcoming_arrivals"`
	GalleryItems     int       `json:"gallery_items"`
	Recommendations  int       `json:"recommendations"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// HealthStatus is the readiness response.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	Storage           string  `json:"storage"`
	Uptime            float64 `json:"uptime_seconds"`
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
