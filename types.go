package sweetmark

import (
	"strconv"
	"time"
)

// Store identifies which on-disk format a bookmark was read from.
type Store string

const (
	// StorePlaces is the live places.sqlite database.
	StorePlaces Store = "places"
	// StoreBackup is a compressed bookmarkbackups snapshot.
	StoreBackup Store = "backup"
)

// Source describes where a bookmark came from.
type Source struct {
	Store     Store
	Profile   string
	StorePath string
}

// Bookmark is the canonical bookmark record, regardless of source format.
//
// BookmarkID and PlaceID are set only for records read from places.sqlite.
// Backup snapshots carry no row identity, so records sourced from them cannot
// be deleted.
type Bookmark struct {
	Title string
	URL   string

	BookmarkID *int64
	PlaceID    *int64

	Source Source
}

// Deletable reports whether the record carries the row identity required for
// deletion from the live store.
func (b Bookmark) Deletable() bool {
	return b.BookmarkID != nil
}

// CheckResult pairs a bookmark with the outcome of its liveness probe.
//
// Status is nil when the probe itself failed (timeout, DNS, refused
// connection) or when the URL was empty and never probed. A bookmark is OK
// iff Status is exactly 200.
type CheckResult struct {
	Bookmark Bookmark
	Status   *int
}

// OK reports whether the probe saw a 200.
func (r CheckResult) OK() bool {
	return r.Status != nil && *r.Status == 200
}

// StatusString renders the status for display and export ("Error" when the
// probe failed outright).
func (r CheckResult) StatusString() string {
	if r.Status == nil {
		return "Error"
	}
	return strconv.Itoa(*r.Status)
}

// Deletion identifies one row to remove from the live store.
type Deletion struct {
	BookmarkID *int64
	PlaceID    *int64
}

// Profile is a Firefox profile discovered on disk.
type Profile struct {
	Name string
	Path string
}

// ExtractResult is returned by Extract.
type ExtractResult struct {
	Bookmarks []Bookmark
	// Store records which strategy produced the bookmarks; empty when none did.
	Store    Store
	Warnings []string
}

// ValidateOptions configures a validation run.
type ValidateOptions struct {
	// Checker performs the per-URL probe. If nil, a default Checker with
	// DefaultTimeout is used.
	Checker *Checker

	// Delay is the minimum gap between consecutive probes. Values below
	// MinProbeDelay are raised to it; the throttle bounds the outbound
	// request rate.
	Delay time.Duration

	// Progress, if set, is called after each record with its 1-based index,
	// the total count, and the result. Results are delivered in input order.
	Progress func(i, total int, r CheckResult)
}

// ValidateResult is returned by Validate.
type ValidateResult struct {
	// Invalid holds every non-OK result, in input order.
	Invalid []CheckResult
	// Processed counts records that were actually probed.
	Processed int
	Warnings  []string
}

// DeleteOptions configures a deletion run.
type DeleteOptions struct {
	// BrowserRunning overrides the Firefox process probe. If nil, a per-OS
	// process listing is used. A probe error is treated as "running".
	BrowserRunning func() (bool, error)
}

// DeleteResult is returned by Delete.
type DeleteResult struct {
	Deleted    int
	Failed     int
	BackupPath string
	Warnings   []string
}
