// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package logging

import "strings"

// Guest contact details end up in booking logs; these helpers keep them
// recognizable for support without writing full PII to disk.

// RedactEmail masks the local part of an address.
// "maria.rossi@example.com" -> "ma***@example.com"
func RedactEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

// RedactName keeps the first rune of each word.
// "Maria Rossi" -> "M*** R***"
func RedactName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	for i, f := range fields {
		r := []rune(f)
		fields[i] = string(r[0]) + "***"
	}
	return strings.Join(fields, " ")
}

// RedactToken shows only the first and last four characters.
func RedactToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeLogValue strips CR/LF so user input cannot forge log lines, and
// truncates long values.
func SanitizeLogValue(s string) string {
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
	const maxLen = 200
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
