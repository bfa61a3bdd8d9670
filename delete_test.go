package sweetmark

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func notRunning() (bool, error) { return false, nil }

func deleteTestProfile(t *testing.T) (profile, dbPath string) {
	t.Helper()
	profile = t.TempDir()
	dbPath = writeTestPlaces(t, profile, []testPlacesRow{
		{bookmarkID: 1, placeID: 10, typ: 1, title: "keep", url: "https://keep.example.com/"},
		{bookmarkID: 2, placeID: 20, typ: 1, title: "dead", url: "https://dead.example.com/"},
		{bookmarkID: 3, placeID: 30, typ: 1, title: "gone", url: "https://gone.example.com/"},
	})
	return profile, dbPath
}

func TestDelete_EmptyRequestSetIsRefused(t *testing.T) {
	profile, dbPath := deleteTestProfile(t)

	_, err := Delete(context.Background(), profile, nil, DeleteOptions{BrowserRunning: notRunning})
	if !errors.Is(err, ErrNothingToDelete) {
		t.Fatalf("want ErrNothingToDelete got %v", err)
	}
	if fileExists(dbPath + BackupSuffix) {
		t.Fatal("refused deletion must not create a backup")
	}
}

func TestDelete_MissingStoreIsRefused(t *testing.T) {
	_, err := Delete(context.Background(), t.TempDir(), []Deletion{{BookmarkID: int64Ptr(1)}},
		DeleteOptions{BrowserRunning: notRunning})
	if !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("want ErrStoreNotFound got %v", err)
	}
}

func TestDelete_RunningBrowserIsRefused(t *testing.T) {
	profile, dbPath := deleteTestProfile(t)
	before := readFileBytes(t, dbPath)

	_, err := Delete(context.Background(), profile, []Deletion{{BookmarkID: int64Ptr(2)}},
		DeleteOptions{BrowserRunning: func() (bool, error) { return true, nil }})
	if !errors.Is(err, ErrBrowserRunning) {
		t.Fatalf("want ErrBrowserRunning got %v", err)
	}

	if !bytes.Equal(before, readFileBytes(t, dbPath)) {
		t.Fatal("refused deletion modified the store")
	}
	if fileExists(dbPath + BackupSuffix) {
		t.Fatal("refused deletion must not create a backup")
	}
}

func TestDelete_ProbeErrorFailsClosed(t *testing.T) {
	profile, _ := deleteTestProfile(t)

	_, err := Delete(context.Background(), profile, []Deletion{{BookmarkID: int64Ptr(2)}},
		DeleteOptions{BrowserRunning: func() (bool, error) { return false, errors.New("ps unavailable") }})
	if !errors.Is(err, ErrBrowserRunning) {
		t.Fatalf("want ErrBrowserRunning on probe failure got %v", err)
	}
}

func TestDelete_RemovesRequestedRowsWithBackup(t *testing.T) {
	profile, dbPath := deleteTestProfile(t)
	before := readFileBytes(t, dbPath)

	res, err := Delete(context.Background(), profile, []Deletion{
		{BookmarkID: int64Ptr(2), PlaceID: int64Ptr(20)},
		{BookmarkID: int64Ptr(3), PlaceID: int64Ptr(30)},
	}, DeleteOptions{BrowserRunning: notRunning})
	if err != nil {
		t.Fatal(err)
	}

	if res.Deleted != 2 || res.Failed != 0 {
		t.Fatalf("want 2 deleted got %+v", res)
	}
	if res.BackupPath != dbPath+BackupSuffix {
		t.Fatalf("unexpected backup path %q", res.BackupPath)
	}
	if !bytes.Equal(before, readFileBytes(t, res.BackupPath)) {
		t.Fatal("backup is not byte-identical to the pre-deletion store")
	}

	if n := countRows(t, dbPath, "moz_bookmarks"); n != 1 {
		t.Fatalf("want 1 remaining bookmark row got %d", n)
	}
	db := openTestSQLite(t, dbPath)
	var title string
	if err := db.QueryRow(`SELECT title FROM moz_bookmarks WHERE id = 1`).Scan(&title); err != nil {
		t.Fatalf("surviving row missing: %v", err)
	}
	if title != "keep" {
		t.Fatalf("wrong row survived: %q", title)
	}
}

func TestDelete_NilIDSkippedWithWarning(t *testing.T) {
	profile, _ := deleteTestProfile(t)

	res, err := Delete(context.Background(), profile, []Deletion{
		{BookmarkID: nil},
		{BookmarkID: int64Ptr(2)},
	}, DeleteOptions{BrowserRunning: notRunning})
	if err != nil {
		t.Fatal(err)
	}
	if res.Deleted != 1 {
		t.Fatalf("want 1 deleted got %d", res.Deleted)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("want a warning for the nil-ID request")
	}
}

func TestDelete_RowFailureDoesNotAbortTransaction(t *testing.T) {
	profile, dbPath := deleteTestProfile(t)

	// Pin one targeted row. RAISE(ABORT) fails only the statement touching it;
	// the surrounding transaction stays open and must still commit.
	db := openTestSQLite(t, dbPath)
	if _, err := db.Exec(`CREATE TRIGGER pin_bookmark BEFORE DELETE ON moz_bookmarks
		WHEN OLD.id = 2 BEGIN SELECT RAISE(ABORT, 'row is pinned'); END`); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	before := readFileBytes(t, dbPath)

	res, err := Delete(context.Background(), profile, []Deletion{
		{BookmarkID: int64Ptr(2), PlaceID: int64Ptr(20)},
		{BookmarkID: int64Ptr(3), PlaceID: int64Ptr(30)},
	}, DeleteOptions{BrowserRunning: notRunning})
	if err != nil {
		t.Fatalf("partial failure must not fail the run: %v", err)
	}

	if res.Deleted != 1 || res.Failed != 1 {
		t.Fatalf("want 1 deleted and 1 failed got %+v", res)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("want a warning for the failed row")
	}
	if !bytes.Equal(before, readFileBytes(t, res.BackupPath)) {
		t.Fatal("backup is not byte-identical to the pre-deletion store")
	}

	if n := countRows(t, dbPath, "moz_bookmarks"); n != 2 {
		t.Fatalf("want 2 remaining bookmark rows got %d", n)
	}
	db = openTestSQLite(t, dbPath)
	var pinned, deleted int
	if err := db.QueryRow(`SELECT COUNT(*) FROM moz_bookmarks WHERE id = 2`).Scan(&pinned); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM moz_bookmarks WHERE id = 3`).Scan(&deleted); err != nil {
		t.Fatal(err)
	}
	if pinned != 1 || deleted != 0 {
		t.Fatalf("wrong rows survived: pinned=%d deleted=%d", pinned, deleted)
	}
}

func TestDeletionsFrom_DropsNonDeletable(t *testing.T) {
	results := []CheckResult{
		{Bookmark: Bookmark{Title: "places", BookmarkID: int64Ptr(5), PlaceID: int64Ptr(50)}, Status: intPtr(404)},
		{Bookmark: Bookmark{Title: "backup"}, Status: nil},
	}

	deletions := DeletionsFrom(results)
	if len(deletions) != 1 {
		t.Fatalf("want 1 deletion got %d", len(deletions))
	}
	if deletions[0].BookmarkID == nil || *deletions[0].BookmarkID != 5 {
		t.Fatalf("unexpected deletion %+v", deletions[0])
	}
}

func TestDelete_BackupOverwritesPrevious(t *testing.T) {
	profile, dbPath := deleteTestProfile(t)

	if _, err := Delete(context.Background(), profile, []Deletion{{BookmarkID: int64Ptr(2)}},
		DeleteOptions{BrowserRunning: notRunning}); err != nil {
		t.Fatal(err)
	}
	afterFirst := readFileBytes(t, dbPath)

	if _, err := Delete(context.Background(), profile, []Deletion{{BookmarkID: int64Ptr(3)}},
		DeleteOptions{BrowserRunning: notRunning}); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(afterFirst, readFileBytes(t, filepath.Join(profile, placesFile)+BackupSuffix)) {
		t.Fatal("second run's backup should snapshot the store as the run found it")
	}
}
