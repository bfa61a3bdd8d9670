package sweetmark

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
)

// BackupSuffix is appended to the store path to form the pre-deletion backup.
const BackupSuffix = ".backup"

var (
	// ErrNothingToDelete is returned when the deletion set is empty.
	ErrNothingToDelete = errors.New("sweetmark: nothing to delete")
	// ErrStoreNotFound is returned when the profile has no places.sqlite.
	ErrStoreNotFound = errors.New("sweetmark: bookmark store not found")
	// ErrBrowserRunning is returned when Firefox appears to be open, or when
	// that could not be determined.
	ErrBrowserRunning = errors.New("sweetmark: Firefox is running, close it before deleting bookmarks")
)

// DeletionsFrom builds the deletion set for a batch of failed checks,
// dropping records that carry no row identity (backup-sourced bookmarks).
func DeletionsFrom(results []CheckResult) []Deletion {
	var out []Deletion
	for _, r := range results {
		if !r.Bookmark.Deletable() {
			continue
		}
		out = append(out, Deletion{BookmarkID: r.Bookmark.BookmarkID, PlaceID: r.Bookmark.PlaceID})
	}
	return out
}

// Delete removes the given bookmark rows from the profile's live store.
//
// It refuses outright, touching nothing, when the deletion set is empty, the
// store file is missing, or Firefox is (or may be) running. Once preconditions
// pass it writes a full byte-copy backup next to the store, then deletes every
// row inside one transaction. Individual row failures are counted and do not
// stop the rest; the transaction still commits. A backup or commit failure
// leaves the store unmodified and is returned as the error.
func Delete(ctx context.Context, profilePath string, deletions []Deletion, opts DeleteOptions) (DeleteResult, error) {
	if len(deletions) == 0 {
		return DeleteResult{}, ErrNothingToDelete
	}

	dbPath := filepath.Join(profilePath, placesFile)
	if !fileExists(dbPath) {
		return DeleteResult{}, fmt.Errorf("%w: %s", ErrStoreNotFound, dbPath)
	}

	running := opts.BrowserRunning
	if running == nil {
		running = func() (bool, error) { return firefoxRunning(ctx) }
	}
	if open, err := running(); err != nil || open {
		// Fail closed: an inconclusive probe counts as running.
		if err != nil {
			return DeleteResult{}, fmt.Errorf("%w (probe failed: %v)", ErrBrowserRunning, err)
		}
		return DeleteResult{}, ErrBrowserRunning
	}

	backupPath := dbPath + BackupSuffix
	if err := copyFile(dbPath, backupPath); err != nil {
		return DeleteResult{}, fmt.Errorf("sweetmark: failed to back up bookmark store: %w", err)
	}

	res := DeleteResult{BackupPath: backupPath}
	if err := deleteRows(ctx, dbPath, deletions, &res); err != nil {
		return res, err
	}
	return res, nil
}

// deleteRows opens the live store (not a copy) and runs every deletion inside
// a single explicit transaction.
func deleteRows(ctx context.Context, dbPath string, deletions []Deletion, res *DeleteResult) error {
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(dbPath))
	if err != nil {
		return fmt.Errorf("sweetmark: failed to open bookmark store: %w", err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sweetmark: failed to begin transaction: %w", err)
	}

	for _, d := range deletions {
		if d.BookmarkID == nil {
			// DeletionsFrom filters these out, but defend anyway.
			res.Warnings = append(res.Warnings, "sweetmark: cannot delete bookmark without ID")
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM moz_bookmarks WHERE id = ?`, *d.BookmarkID); err != nil {
			res.Failed++
			res.Warnings = append(res.Warnings, fmt.Sprintf("sweetmark: error deleting bookmark %d: %v", *d.BookmarkID, err))
			continue
		}
		res.Deleted++
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		res.Deleted = 0
		res.Failed = 0
		return fmt.Errorf("sweetmark: failed to commit deletions: %w", err)
	}
	return nil
}
