// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
	"github.com/tomtom215/guesthouse/internal/storage"
)

// upload is a received and type-checked multipart file.
type upload struct {
	file        multipart.File
	filename    string
	size        int64
	contentType string
}

func (u *upload) Close() {
	_ = u.file.Close()
}

// isMultipart reports whether the request carries multipart/form-data.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

// parseMultipart bounds the body to maxFile plus room for the text fields and
// parses the form. It writes the error response itself.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxFile int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFile+maxJSONBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Upload too large", nil)
			return false
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid multipart form", nil)
		return false
	}
	return true
}

// receiveUpload opens form file field, enforces maxSize and sniffs the
// content type against allowed. With required false a missing field yields
// (nil, true). Any failure is answered before returning false.
func receiveUpload(w http.ResponseWriter, r *http.Request, field string, maxSize int64, required bool, allowed []string) (*upload, bool) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) && !required {
		return nil, true
	}
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Missing file field "+field, map[string]interface{}{"field": field})
		return nil, false
	}

	if header.Size > maxSize {
		_ = file.Close()
		respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "File too large", map[string]interface{}{"max_bytes": maxSize})
		return nil, false
	}
	if header.Size == 0 {
		_ = file.Close()
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "File is empty", map[string]interface{}{"field": field})
		return nil, false
	}

	contentType, err := storage.Sniff(file)
	if err != nil {
		_ = file.Close()
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Unreadable upload", nil)
		return nil, false
	}
	if !storage.AllowedType(contentType, allowed...) {
		_ = file.Close()
		respondError(w, r, http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia, "File type "+contentType+" is not accepted", nil)
		return nil, false
	}

	return &upload{
		file:        file,
		filename:    header.Filename,
		size:        header.Size,
		contentType: contentType,
	}, true
}

// storeUpload writes u under a fresh key below prefix and returns the key.
func (h *Handler) storeUpload(ctx context.Context, prefix string, u *upload) (string, error) {
	key := storage.NewKey(prefix, u.filename)
	if err := h.store.Put(ctx, key, u.file, u.size, u.contentType); err != nil {
		return "", err
	}
	metrics.StorageBytesUploaded.WithLabelValues(h.store.Name()).Add(float64(u.size))
	return key, nil
}

// deleteObject removes key after a committed document change. Failures are
// logged and otherwise ignored; the document is the source of truth.
func (h *Handler) deleteObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.store.Delete(ctx, key); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to delete stored object")
	}
}
