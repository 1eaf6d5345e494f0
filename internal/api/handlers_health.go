// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/models"
)

const readinessTimeout = 2 * time.Second

// readinessProbeKey is checked for existence only; it never needs to exist.
const readinessProbeKey = "health/probe"

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, map[string]interface{}{
		"status":         "alive",
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady pings the document store and object storage. A failing
// document store makes the instance unready; failing object storage only
// degrades it, since pages without media still work.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	health := models.HealthStatus{
		Status:            "ready",
		Version:           h.version,
		DatabaseConnected: true,
		Storage:           "ok",
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	if err := h.db.Ping(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Readiness check: document store unavailable")
		health.DatabaseConnected = false
		health.Status = "unavailable"
	}
	if _, err := h.store.Exists(ctx, readinessProbeKey); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("backend", h.store.Name()).Msg("Readiness check: object storage unavailable")
		health.Storage = "unavailable"
		if health.DatabaseConnected {
			health.Status = "degraded"
		}
	}

	status := http.StatusOK
	if !health.DatabaseConnected {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, r, status, &APIResponse{Success: health.DatabaseConnected, Data: health, Meta: newMeta(r)})
}
