// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package storage

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen matches the number of bytes http.DetectContentType inspects.
const sniffLen = 512

// Allowed content families for uploads.
var (
	MediaTypes      = []string{"image/", "video/"}
	PhotoTypes      = []string{"image/"}
	AttachmentTypes = []string{"image/", "application/pdf"}
)

// Sniff detects the content type of r from its first bytes and rewinds it.
// The client-supplied Content-Type is never trusted.
func Sniff(r io.ReadSeeker) (string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind: %w", err)
	}
	return DetectBytes(buf[:n]), nil
}

// DetectBytes returns the media type of data without parameters.
func DetectBytes(data []byte) string {
	return baseType(mimetype.Detect(data).String())
}

// AllowedType reports whether contentType matches one of allowed. Entries
// ending in "/" match a whole family, others must match exactly.
func AllowedType(contentType string, allowed ...string) bool {
	ct := baseType(contentType)
	if ct == "" {
		return false
	}
	for _, a := range allowed {
		if strings.HasSuffix(a, "/") {
			if strings.HasPrefix(ct, a) {
				return true
			}
			continue
		}
		if ct == a {
			return true
		}
	}
	return false
}

func baseType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
