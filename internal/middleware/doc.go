// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

/*
Package middleware provides chi-compatible HTTP middleware shared by every
route group.

Key Components:

  - RequestID: honours or generates X-Request-ID and seeds the logging context
  - AccessLog: one structured log line per request
  - PrometheusMetrics: request totals, durations and the in-flight gauge

Middleware Stack:

The router applies them in this order:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

Metrics are labelled with the chi route pattern (for example
/api/v1/admin/bookings/{id}) rather than the raw path, so ids do not create new
series.
*/
package middleware
