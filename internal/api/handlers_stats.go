// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/cache"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/models"
	"github.com/tomtom215/guesthouse/internal/stats"
	"github.com/tomtom215/guesthouse/internal/validation"
)

const (
	minStatsYear = 2000
	maxStatsYear = 2100
)

// OccupancyStats returns monthly occupancy per house for the "year" query
// parameter, the current year by default. Results are cached until the next
// write.
func (h *Handler) OccupancyStats(w http.ResponseWriter, r *http.Request) {
	year, verr := statsYear(r, h.now().UTC().Year())
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}

	key := cache.Key("occupancy", year)
	if cached, ok := h.statsCache.Get(key); ok {
		respondData(w, r, cached)
		return
	}

	gen := h.statsCache.Generation()
	houses, err := h.db.ListHouses(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "houses")
		return
	}
	report := stats.Occupancy(year, houses)
	h.statsCache.SetIfGeneration(key, report, gen)
	respondData(w, r, report)
}

// statsYear reads the "year" query parameter.
func statsYear(r *http.Request, fallback int) (int, *validation.RequestValidationError) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return fallback, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.NewFieldError("year", "numeric", "year must be a whole number")
	}
	if year < minStatsYear || year > maxStatsYear {
		return 0, validation.NewFieldError("year", "range", "year must be between 2000 and 2100")
	}
	return year, nil
}

// SummaryStats returns the dashboard counters, computed from one snapshot
// of the store.
func (h *Handler) SummaryStats(w http.ResponseWriter, r *http.Request) {
	today := models.Today(h.now())

	key := cache.Key("summary", models.FormatDate(today))
	if cached, ok := h.statsCache.Get(key); ok {
		respondData(w, r, cached)
		return
	}

	gen := h.statsCache.Generation()
	snap, err := h.snapshot(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "stats")
		return
	}

	summary := stats.Summarize(today, snap.Houses, snap.Bookings, snap.GalleryItems, snap.Recommendations)
	h.statsCache.SetIfGeneration(key, summary, gen)
	respondData(w, r, summary)
}

// ListBackups lists backup files, newest first.
func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Backups are not configured", nil)
		return
	}
	backups, err := h.backups.List()
	if err != nil {
		respondStoreError(w, r, err, "backups")
		return
	}
	respondList(w, r, backups)
}

// CreateBackup runs a backup now. A backup already running yields 409.
func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Backups are not configured", nil)
		return
	}
	info, err := h.backups.Create(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "backup")
		return
	}
	logging.Ctx(r.Context()).Info().Str("backup", info.Name).Int64("size", info.Size).Msg("Manual backup created")
	h.recordChange(r, audit.EventTypeBackupCreated, audit.Target{Type: "backup", ID: info.Name}, "Manual backup created",
		map[string]interface{}{"size": info.Size})
	respondCreated(w, r, info)
}
