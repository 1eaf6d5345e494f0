// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

/*
Package models defines the data structures shared by the Guesthouse packages.

Document Models (stored by internal/database):

  - House: a rentable unit with capacity, amenities, photos and its guest list
  - GuestEntry: one assigned stay, embedded in House.Guests
  - Booking: a request submitted from the public page, pending until assigned
  - GalleryItem: an image or video shown on the public page
  - Recommendation: a local tip (restaurant, beach, ...) curated by the admin

Request Models carry the validate tags checked by internal/validation before a
document is created or changed.

Stats Models (computed by internal/stats):

  - OccupancyReport: per house and per month nights, bookings and guests
  - Summary: dashboard counters

Dates:

Stays are half-open ranges [check_in, check_out) of calendar days carried as
YYYY-MM-DD strings. ParseStay converts them to a Stay for arithmetic; two stays
where one checks out on the day the other checks in do not overlap.
*/
package models
