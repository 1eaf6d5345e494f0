// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Key prefixes. Gallery and house photos are public; attachments carry guest
// documents and are only served to admins.
const (
	PrefixGallery     = "gallery"
	PrefixHouses      = "houses"
	PrefixAttachments = "attachments"
)

const maxExtLen = 8

// NewKey returns "<prefix>/<uuid><ext>". The extension is taken from filename
// when it is short and alphanumeric, and dropped otherwise.
func NewKey(prefix, filename string) string {
	return prefix + "/" + uuid.New().String() + cleanExt(filename)
}

func cleanExt(filename string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, "\\", "/")))
	if len(ext) < 2 || len(ext) > maxExtLen+1 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// ValidateKey rejects keys that could escape the storage root.
func ValidateKey(key string) error {
	switch {
	case key == "",
		strings.HasPrefix(key, "/"),
		strings.Contains(key, "\\"),
		strings.Contains(key, "//"),
		strings.ContainsRune(key, 0):
		return ErrInvalidKey
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "." || seg == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

// IsPublicKey reports whether key may be streamed without authentication.
func IsPublicKey(key string) bool {
	if ValidateKey(key) != nil {
		return false
	}
	return strings.HasPrefix(key, PrefixGallery+"/") || strings.HasPrefix(key, PrefixHouses+"/")
}

// HasPrefix reports whether key lives under prefix.
func HasPrefix(key, prefix string) bool {
	return strings.HasPrefix(key, prefix+"/")
}
