package sweetmark

import (
	"database/sql"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pierrec/lz4/v4"
	_ "modernc.org/sqlite"
)

func openTestSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=rwc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// writeTestPlaces builds a places.sqlite with the moz_bookmarks/moz_places
// subset this package reads, returning its path.
func writeTestPlaces(t *testing.T, profileDir string, rows []testPlacesRow) string {
	t.Helper()
	path := filepath.Join(profileDir, placesFile)
	db := openTestSQLite(t, path)

	if _, err := db.Exec(`CREATE TABLE moz_places(id INTEGER PRIMARY KEY, url TEXT)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE moz_bookmarks(id INTEGER PRIMARY KEY, type INTEGER, fk INTEGER, title TEXT)`); err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		if _, err := db.Exec(`INSERT INTO moz_places(id, url) VALUES(?, ?)`, r.placeID, r.url); err != nil {
			t.Fatal(err)
		}
		title := any(r.title)
		if r.title == "" {
			title = nil
		}
		if _, err := db.Exec(`INSERT INTO moz_bookmarks(id, type, fk, title) VALUES(?, ?, ?, ?)`,
			r.bookmarkID, r.typ, r.placeID, title); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

type testPlacesRow struct {
	bookmarkID int64
	placeID    int64
	typ        int
	title      string
	url        string
}

// writeMozLz4 wraps json in the mozLz4 container used by bookmarkbackups.
func writeMozLz4(t *testing.T, path string, json []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	var compressor lz4.Compressor
	compressed := make([]byte, lz4.CompressBlockBound(len(json)))
	n, err := compressor.CompressBlock(json, compressed)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("test payload did not compress; make it more repetitive")
	}

	out := make([]byte, 0, len(mozLz4Magic)+4+n)
	out = append(out, []byte(mozLz4Magic)...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(json)))
	out = append(out, compressed[:n]...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatal(err)
	}
}

func countRows(t *testing.T, dbPath, table string) int {
	t.Helper()
	db := openTestSQLite(t, dbPath)
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func readFileBytes(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// fastProbes drops the inter-probe throttle for the duration of a test.
func fastProbes(t *testing.T) {
	t.Helper()
	orig := minProbeDelay
	minProbeDelay = time.Millisecond
	t.Cleanup(func() { minProbeDelay = orig })
}

func intPtr(n int) *int { return &n }

func int64Ptr(n int64) *int64 { return &n }
