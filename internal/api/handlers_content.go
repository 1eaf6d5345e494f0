// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/models"
	"github.com/tomtom215/guesthouse/internal/storage"
	"github.com/tomtom215/guesthouse/internal/validation"
	"github.com/tomtom215/guesthouse/internal/websocket"
)

// CreateGalleryItem uploads a photo or video with its title, caption and
// position from the multipart form.
func (h *Handler) CreateGalleryItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !parseMultipart(w, r, h.cfg.Storage.MaxUploadSize) {
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req := models.GalleryItemRequest{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Caption: r.FormValue("caption"),
	}
	if raw := r.FormValue("position"); raw != "" {
		pos, err := strconv.Atoi(raw)
		if err != nil {
			respondValidation(w, r, validation.NewFieldError("position", "number", "position must be a whole number"))
			return
		}
		req.Position = pos
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidation(w, r, verr)
		return
	}

	u, ok := receiveUpload(w, r, "file", h.cfg.Storage.MaxUploadSize, true, storage.MediaTypes)
	if !ok {
		return
	}
	defer u.Close()

	key, err := h.storeUpload(ctx, storage.PrefixGallery, u)
	if err != nil {
		respondStoreError(w, r, err, "gallery file")
		return
	}

	item := &models.GalleryItem{
		FileKey:     key,
		ContentType: u.contentType,
		Size:        u.size,
	}
	req.Apply(item)

	created, err := h.db.CreateGalleryItem(ctx, item)
	if err != nil {
		h.deleteObject(ctx, key)
		respondStoreError(w, r, err, "gallery item")
		return
	}

	logging.Ctx(ctx).Info().
		Str("gallery_id", created.ID).
		Str("content_type", created.ContentType).
		Int64("size", created.Size).
		Msg("Gallery item uploaded")

	h.recordChange(r, audit.EventTypeGalleryChanged, audit.Target{Type: "gallery_item", ID: created.ID, Name: created.Title}, "Gallery item uploaded", nil)
	h.broadcast(websocket.MessageTypeGalleryUpdated, created)
	respondCreated(w, r, created)
}

// UpdateGalleryItem edits title, caption and position. The file is kept.
func (h *Handler) UpdateGalleryItem(w http.ResponseWriter, r *http.Request) {
	var req models.GalleryItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.db.UpdateGalleryItem(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondStoreError(w, r, err, "gallery item")
		return
	}
	h.recordChange(r, audit.EventTypeGalleryChanged, audit.Target{Type: "gallery_item", ID: item.ID, Name: item.Title}, "Gallery item updated", nil)
	h.broadcast(websocket.MessageTypeGalleryUpdated, item)
	respondData(w, r, item)
}

// DeleteGalleryItem removes the item and then its file.
func (h *Handler) DeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	item, err := h.db.DeleteGalleryItem(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, r, err, "gallery item")
		return
	}
	h.deleteObject(ctx, item.FileKey)
	h.recordChange(r, audit.EventTypeGalleryChanged, audit.Target{Type: "gallery_item", ID: item.ID, Name: item.Title}, "Gallery item deleted", nil)
	h.broadcast(websocket.MessageTypeGalleryUpdated, websocket.DeletedData{ID: item.ID})
	respondData(w, r, map[string]string{"id": item.ID})
}

func (h *Handler) CreateRecommendation(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.db.CreateRecommendation(r.Context(), &req)
	if err != nil {
		respondStoreError(w, r, err, "recommendation")
		return
	}
	h.recordChange(r, audit.EventTypeRecommendationSet, recommendationTarget(rec), "Recommendation created", nil)
	h.broadcast(websocket.MessageTypeRecommendationsUpdated, rec)
	respondCreated(w, r, rec)
}

func (h *Handler) UpdateRecommendation(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.db.UpdateRecommendation(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondStoreError(w, r, err, "recommendation")
		return
	}
	h.recordChange(r, audit.EventTypeRecommendationSet, recommendationTarget(rec), "Recommendation updated", nil)
	h.broadcast(websocket.MessageTypeRecommendationsUpdated, rec)
	respondData(w, r, rec)
}

func (h *Handler) DeleteRecommendation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.db.DeleteRecommendation(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "recommendation")
		return
	}
	h.recordChange(r, audit.EventTypeRecommendationSet, audit.Target{Type: "recommendation", ID: id}, "Recommendation deleted", nil)
	h.broadcast(websocket.MessageTypeRecommendationsUpdated, websocket.DeletedData{ID: id})
	respondData(w, r, map[string]string{"id": id})
}

func recommendationTarget(rec *models.Recommendation) audit.Target {
	return audit.Target{Type: "recommendation", ID: rec.ID, Name: rec.Name}
}
