// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package cache provides a small thread-safe TTL cache.
//
// The admin dashboard statistics are recomputed from every house and booking
// document, so the API keeps the results here for a few minutes and clears
// the cache on every write:
//
//	key := cache.Key("occupancy", year)
//	if v, ok := c.Get(key); ok {
//	    return v.(*models.OccupancyReport)
//	}
//	report := stats.Occupancy(year, houses)
//	c.Set(key, report)
//
// Hits and misses are exported as Prometheus counters labelled with the
// cache name.
package cache
