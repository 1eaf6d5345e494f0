// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

// Package metrics defines the Prometheus collectors exported on /metrics.
// Every name starts with guesthouse_.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "guesthouse"

// HTTP
var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "http", Name: "requests_total",
		Help: "Finished HTTP requests by method, chi route pattern and status.",
	}, []string{"method", "endpoint", "status_code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "endpoint"})

	HTTPInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "http", Name: "requests_in_flight",
		Help: "Requests currently being served.",
	})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "http", Name: "rate_limited_total",
		Help: "Requests rejected by a rate limiter, by limiter.",
	}, []string{"endpoint"})
)

// Bookings. The assignment result label is one of assigned,
// capacity_exceeded, date_conflict, conflict or error.
var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "bookings", Name: "created_total",
		Help: "Bookings submitted from the public page, by whether a file was attached.",
	}, []string{"attachment"})

	BookingAssignments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "bookings", Name: "assignments_total",
		Help: "Attempts to place a booking in a house, by result.",
	}, []string{"result"})

	BookingsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "bookings", Name: "deleted_total",
		Help: "Bookings removed by an admin.",
	})
)

// Object storage
var (
	StorageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "storage", Name: "operations_total",
		Help: "Media storage calls by backend, operation and result.",
	}, []string{"backend", "operation", "result"})

	StorageBytesUploaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "storage", Name: "uploaded_bytes_total",
		Help: "Bytes written to media storage.",
	}, []string{"backend"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "circuit_breaker", Name: "state",
		Help: "Breaker state: 0 closed, 1 half-open, 2 open.",
	}, []string{"name"})

	CircuitBreakerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "circuit_breaker", Name: "requests_total",
		Help: "Calls through a breaker by result (success, failure, rejected).",
	}, []string{"name", "result"})

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "circuit_breaker", Name: "consecutive_failures",
		Help: "Failures in a row seen by a breaker.",
	}, []string{"name"})

	CircuitBreakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "circuit_breaker", Name: "transitions_total",
		Help: "Breaker state changes.",
	}, []string{"name", "from", "to"})
)

// Stats cache
var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "cache", Name: "hits_total",
		Help: "Cache lookups that found a live entry.",
	}, []string{"cache_type"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "cache", Name: "misses_total",
		Help: "Cache lookups that found nothing or an expired entry.",
	}, []string{"cache_type"})
)

// Live updates
var (
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "websocket", Name: "connections",
		Help: "Open dashboard connections.",
	})

	WSMessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "websocket", Name: "messages_sent_total",
		Help: "Messages queued to dashboard connections.",
	})

	WSErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "websocket", Name: "errors_total",
		Help: "Live update failures by kind (read, write, slow_client, queue_full).",
	}, []string{"error_type"})
)

// Access control
var (
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "auth", Name: "attempts_total",
		Help: "Admin logins by result.",
	}, []string{"result"})

	AuthzDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "authz", Name: "denials_total",
		Help: "Requests refused by the role policy, by role.",
	}, []string{"role"})
)

// Backups
var (
	BackupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "backup", Name: "runs_total",
		Help: "Document store backups by result.",
	}, []string{"result"})

	BackupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "backup", Name: "duration_seconds",
		Help:    "Time taken by successful backups.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})

	BackupLastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "backup", Name: "last_success_timestamp_seconds",
		Help: "Unix time of the last successful backup.",
	})
)

// AppInfo is set to 1 with the running version.
var AppInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace, Name: "build_info",
	Help: "Always 1, labeled with the build version.",
}, []string{"version", "go_version"})

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordStorageOperation counts a media storage call.
func RecordStorageOperation(backend, operation string, err error) {
	StorageOperations.WithLabelValues(backend, operation, outcome(err)).Inc()
}

// RecordBackup counts a backup run. Duration and the last-success time only
// move on success.
func RecordBackup(elapsed time.Duration, err error) {
	BackupsTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		BackupDuration.Observe(elapsed.Seconds())
		BackupLastSuccess.SetToCurrentTime()
	}
}

// RecordCacheAccess counts a cache lookup.
func RecordCacheAccess(cacheType string, hit bool) {
	c := CacheMisses
	if hit {
		c = CacheHits
	}
	c.WithLabelValues(cacheType).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
