// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomtom215/guesthouse/internal/logging"
)

// applyRetention deletes all but the newest m.retention backups and returns
// how many files were removed. A retention below one keeps everything.
func (m *Manager) applyRetention() (int, error) {
	if m.retention < 1 {
		return 0, nil
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= m.retention {
		return 0, nil
	}

	log := logging.WithComponent("backup")
	var errs []error
	removed := 0
	for _, b := range backups[m.retention:] {
		if err := os.Remove(filepath.Join(m.dir, b.Name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", b.Name, err))
			continue
		}
		removed++
		log.Debug().Str("name", b.Name).Msg("Old backup removed")
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Int("kept", m.retention).Msg("Backup retention applied")
	}
	return removed, errors.Join(errs...)
}
