// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package models

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidDate indicates a date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidStay indicates a check-out that is not after check-in.
	ErrInvalidStay = errors.New("check-out must be after check-in")
)

// Stay is a half-open range of calendar days [CheckIn, CheckOut) in UTC.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseStay parses and checks a check-in/check-out pair.
func ParseStay(checkIn, checkOut string) (Stay, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return Stay{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return Stay{}, err
	}
	if !out.After(in) {
		return Stay{}, ErrInvalidStay
	}
	return Stay{CheckIn: in, CheckOut: out}, nil
}

// Nights returns the number of nights in the stay.
func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

// Overlaps reports whether two stays share at least one night.
func (s Stay) Overlaps(o Stay) bool {
	return s.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(s.CheckOut)
}

// Contains reports whether the guest sleeps there on the night of day.
func (s Stay) Contains(day time.Time) bool {
	return !day.Before(s.CheckIn) && day.Before(s.CheckOut)
}

// NightsBetween returns the nights of the stay that fall within [from, to).
func (s Stay) NightsBetween(from, to time.Time) int {
	start := s.CheckIn
	if from.After(start) {
		start = from
	}
	end := s.CheckOut
	if to.Before(end) {
		end = to
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// Today returns the current UTC calendar day.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
