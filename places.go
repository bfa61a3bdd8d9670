package sweetmark

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver (pure Go).
)

const placesFile = "places.sqlite"

// placesQuery selects bookmark rows (type 1, as opposed to folders and
// separators) joined to their URL records, HTTP(S) only.
const placesQuery = `SELECT b.title, p.url, b.id, p.id
FROM moz_bookmarks b
JOIN moz_places p ON b.fk = p.id
WHERE b.type = 1 AND p.url LIKE 'http%'`

// extractFromPlaces reads bookmarks out of places.sqlite. The live file may be
// locked by a running Firefox, so the query runs against a disposable snapshot
// copy that is removed again on every path; the live store is never touched.
// All failures are soft: the caller gets no records plus a warning and moves on
// to the backup strategy.
func extractFromPlaces(ctx context.Context, profilePath string) ([]Bookmark, []string) {
	dbPath := filepath.Join(profilePath, placesFile)
	if !fileExists(dbPath) {
		return nil, []string{fmt.Sprintf("sweetmark: %s not found in profile %q", placesFile, profilePath)}
	}

	snap, cleanup, warnings, err := placesOpenSnapshotReadOnly(dbPath)
	if err != nil {
		return nil, warnings
	}
	defer cleanup()

	db, err := placesOpenDB(ctx, snap)
	if err != nil {
		return nil, append(warnings, fmt.Sprintf("sweetmark: failed to open bookmark store: %v", err))
	}
	defer func() { _ = db.Close() }()

	source := Source{Store: StorePlaces, Profile: filepath.Base(profilePath), StorePath: dbPath}
	bookmarks, err := placesReadRows(ctx, db, source)
	if err != nil {
		return nil, append(warnings, fmt.Sprintf("sweetmark: failed to read bookmarks: %v", err))
	}
	return bookmarks, warnings
}

func placesOpenSnapshotReadOnly(dbPath string) (snapshotPath string, cleanup func(), warnings []string, err error) {
	dir, err := os.MkdirTemp("", "sweetmark-places-")
	if err != nil {
		return "", nil, []string{fmt.Sprintf("sweetmark: failed to create snapshot dir: %v", err)}, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	target := filepath.Join(dir, placesFile)
	if err := copyFile(dbPath, target); err != nil {
		warnings = append(warnings, fmt.Sprintf("sweetmark: failed to copy bookmark store: %v", err))
		cleanup()
		return "", nil, warnings, err
	}

	// If WAL mode is enabled, recent writes may live in sidecars.
	_ = copyFileIfExists(dbPath+"-wal", target+"-wal")
	_ = copyFileIfExists(dbPath+"-shm", target+"-shm")

	return target, cleanup, warnings, nil
}

func placesOpenDB(ctx context.Context, snapshotPath string) (*sql.DB, error) {
	dsn := "file:" + filepath.ToSlash(snapshotPath) + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func placesReadRows(ctx context.Context, db *sql.DB, source Source) ([]Bookmark, error) {
	rows, err := db.QueryContext(ctx, placesQuery)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Bookmark
	for rows.Next() {
		var title sql.NullString
		var url string
		var bookmarkID, placeID int64
		if err := rows.Scan(&title, &url, &bookmarkID, &placeID); err != nil {
			return nil, err
		}

		b := Bookmark{
			Title:      title.String,
			URL:        url,
			BookmarkID: &bookmarkID,
			PlaceID:    &placeID,
			Source:     source,
		}
		if b.Title == "" {
			b.Title = untitled
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
