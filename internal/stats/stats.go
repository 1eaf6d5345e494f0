// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package stats computes dashboard statistics from in-memory documents.
// Functions here do no I/O; callers pass a database snapshot.
package stats

import (
	"time"

	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/models"
)

// upcomingWindow is how far ahead Summarize counts arrivals.
const upcomingWindow = 7 * 24 * time.Hour

// Occupancy tallies each house's guest entries by month of year.
//
// Nights are the part of each stay [check_in, check_out) falling inside the
// month, so a stay across a month boundary is split between both months.
// Bookings and guests are counted once, in the month of arrival.
func Occupancy(year int, houses []models.House) *models.OccupancyReport {
	report := &models.OccupancyReport{
		Year:   year,
		Houses: make([]models.HouseOccupancy, 0, len(houses)),
	}
	for m := range report.Months {
		report.Months[m].Month = m + 1
	}

	for _, h := range houses {
		ho := houseOccupancy(year, &h)
		for m := range ho.Months {
			report.Months[m].Bookings += ho.Months[m].Bookings
			report.Months[m].Guests += ho.Months[m].Guests
			report.Months[m].Nights += ho.Months[m].Nights
			report.Months[m].AvailableNights += ho.Months[m].AvailableNights
		}
		report.TotalNights += ho.TotalNights
		report.Houses = append(report.Houses, ho)
	}

	for m := range report.Months {
		report.Months[m].OccupancyRate = rate(report.Months[m].Nights, report.Months[m].AvailableNights)
	}
	return report
}

func houseOccupancy(year int, h *models.House) models.HouseOccupancy {
	ho := models.HouseOccupancy{HouseID: h.ID, HouseName: h.Name}

	available := 0
	for m := range ho.Months {
		start := monthStart(year, m+1)
		ho.Months[m].Month = m + 1
		ho.Months[m].AvailableNights = daysIn(start)
		available += ho.Months[m].AvailableNights
	}

	for _, g := range h.Guests {
		stay, err := g.Stay()
		if err != nil {
			logging.Warn().Err(err).Str("house_id", h.ID).Str("booking_id", g.BookingID).
				Msg("Skipping guest entry with invalid dates")
			continue
		}
		if stay.CheckIn.Year() == year {
			m := int(stay.CheckIn.Month()) - 1
			ho.Months[m].Bookings++
			ho.Months[m].Guests += g.NumGuests
		}
		for m := range ho.Months {
			start := monthStart(year, m+1)
			ho.Months[m].Nights += stay.NightsBetween(start, start.AddDate(0, 1, 0))
		}
	}

	for m := range ho.Months {
		ho.Months[m].OccupancyRate = rate(ho.Months[m].Nights, ho.Months[m].AvailableNights)
		ho.TotalNights += ho.Months[m].Nights
	}
	ho.OccupancyRate = rate(ho.TotalNights, available)
	return ho
}

// Summarize computes the dashboard counters as of today (a UTC calendar day).
func Summarize(today time.Time, houses []models.House, bookings []models.Booking, galleryItems, recommendations int) *models.Summary {
	s := &models.Summary{
		Houses:          len(houses),
		GalleryItems:    galleryItems,
		Recommendations: recommendations,
	}

	for i := range bookings {
		switch bookings[i].Status {
		case models.BookingPending:
			s.PendingBookings++
		case models.BookingAssigned:
			s.AssignedBookings++
		}
	}

	horizon := today.Add(upcomingWindow)
	for _, h := range houses {
		s.TotalCapacity += h.Capacity
		for _, g := range h.Guests {
			stay, err := g.Stay()
			if err != nil {
				continue
			}
			if stay.Contains(today) {
				s.CurrentGuests += g.NumGuests
			}
			if !stay.CheckIn.Before(today) && stay.CheckIn.Before(horizon) {
				s.UpcomingArrivals++
			}
		}
	}
	return s
}

func monthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

func daysIn(monthStart time.Time) int {
	return monthStart.AddDate(0, 1, -1).Day()
}

func rate(nights, available int) float64 {
	if available == 0 {
		return 0
	}
	return float64(nights) / float64(available)
}
