// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/models"
	"github.com/tomtom215/guesthouse/internal/storage"
	"github.com/tomtom215/guesthouse/internal/validation"
	"github.com/tomtom215/guesthouse/internal/websocket"
)

// ListHouses lists houses including their guest lists.
func (h *Handler) ListHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := h.db.ListHouses(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "houses")
		return
	}
	respondList(w, r, houses)
}

// GetHouse returns one house including its guest list.
func (h *Handler) GetHouse(w http.ResponseWriter, r *http.Request) {
	house, err := h.db.GetHouse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "house")
		return
	}
	respondData(w, r, house)
}

func (h *Handler) CreateHouse(w http.ResponseWriter, r *http.Request) {
	var req models.HouseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	house, err := h.db.CreateHouse(r.Context(), &req)
	if err != nil {
		respondStoreError(w, r, err, "house")
		return
	}
	logging.Ctx(r.Context()).Info().Str("house_id", house.ID).Str("name", logging.SanitizeLogValue(house.Name)).Msg("House created")
	h.recordChange(r, audit.EventTypeHouseCreated, houseTarget(house), "House created", nil)
	h.broadcast(websocket.MessageTypeHouseUpdated, house)
	respondCreated(w, r, house)
}

// UpdateHouse replaces the editable fields. The guest list and photos are
// kept.
func (h *Handler) UpdateHouse(w http.ResponseWriter, r *http.Request) {
	var req models.HouseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	house, err := h.db.UpdateHouse(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondStoreError(w, r, err, "house")
		return
	}
	h.recordChange(r, audit.EventTypeHouseUpdated, houseTarget(house), "House updated", nil)
	h.broadcast(websocket.MessageTypeHouseUpdated, house)
	respondData(w, r, house)
}

// DeleteHouse removes a house without guests together with its photos.
func (h *Handler) DeleteHouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	house, err := h.db.DeleteHouse(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "house")
		return
	}
	for _, key := range house.PhotoKeys {
		h.deleteObject(ctx, key)
	}
	logging.Ctx(ctx).Info().Str("house_id", house.ID).Int("photos", len(house.PhotoKeys)).Msg("House deleted")
	h.recordChange(r, audit.EventTypeHouseDeleted, houseTarget(house), "House deleted", nil)
	h.broadcastDeleted(websocket.MessageTypeHouseDeleted, house.ID)
	respondData(w, r, map[string]string{"id": house.ID})
}

// UploadHousePhoto stores the multipart "file" image and appends it to the
// house's photos.
func (h *Handler) UploadHousePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := h.db.GetHouse(ctx, id); err != nil {
		respondStoreError(w, r, err, "house")
		return
	}

	if !parseMultipart(w, r, h.cfg.Storage.MaxUploadSize) {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	u, ok := receiveUpload(w, r, "file", h.cfg.Storage.MaxUploadSize, true, storage.PhotoTypes)
	if !ok {
		return
	}
	defer u.Close()

	key, err := h.storeUpload(ctx, storage.PrefixHouses, u)
	if err != nil {
		respondStoreError(w, r, err, "photo")
		return
	}

	house, err := h.db.AddHousePhoto(ctx, id, key)
	if err != nil {
		h.deleteObject(ctx, key)
		respondStoreError(w, r, err, "house")
		return
	}
	h.recordChange(r, audit.EventTypeHouseUpdated, houseTarget(house), "House photo added", map[string]interface{}{"key": key})
	h.broadcast(websocket.MessageTypeHouseUpdated, house)
	respondCreated(w, r, house)
}

// DeleteHousePhoto removes the photo named by the "key" query parameter.
func (h *Handler) DeleteHousePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.URL.Query().Get("key")
	if key == "" || !storage.HasPrefix(key, storage.PrefixHouses) {
		respondValidation(w, r, validation.NewFieldError("key", "required", "key must name a house photo"))
		return
	}

	house, err := h.db.RemoveHousePhoto(ctx, chi.URLParam(r, "id"), key)
	if err != nil {
		respondStoreError(w, r, err, "photo")
		return
	}
	h.deleteObject(ctx, key)
	h.recordChange(r, audit.EventTypeHouseUpdated, houseTarget(house), "House photo removed", map[string]interface{}{"key": key})
	h.broadcast(websocket.MessageTypeHouseUpdated, house)
	respondData(w, r, house)
}

func houseTarget(house *models.House) audit.Target {
	return audit.Target{Type: "house", ID: house.ID, Name: house.Name}
}
