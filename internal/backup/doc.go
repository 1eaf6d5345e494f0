// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

/*
Package backup writes full backups of the Badger document store.

Each backup is a single file produced by badger.DB.Backup and named

	guesthouse-<UTC timestamp>.bak

in the configured directory. The file is written under a temporary name and
renamed when complete, so List never reports a partial backup.

Scheduling:

Manager implements suture.Service. When backups are enabled the supervisor
runs Manager.Serve, which takes a backup every Interval and then applies the
retention policy (keep the newest Retention files). Admins can also trigger a
backup through the API with Manager.Create.

Restoring:

A backup file is restored into an empty store with badger.DB.Load, for example
with the badger CLI:

	badger restore --dir /data/guesthouse.db --backup-file guesthouse-20260101-030000.000.bak
*/
package backup
