package sweetmark

import (
	"context"
	"strings"
)

// untitled replaces missing bookmark titles from either source.
const untitled = "Untitled"

// Extract reads every HTTP(S) bookmark in the given profile directory.
//
// The live places.sqlite store is tried first; the newest bookmarkbackups
// snapshot is consulted only when the store yields zero records. Extract never
// fails: a missing or corrupt source degrades to an empty result, with the
// reasons accumulated in Warnings.
func Extract(ctx context.Context, profilePath string) ExtractResult {
	bookmarks, warnings := extractFromPlaces(ctx, profilePath)
	if len(bookmarks) > 0 {
		return ExtractResult{Bookmarks: bookmarks, Store: StorePlaces, Warnings: warnings}
	}

	fallback, backupWarnings := extractFromBackup(profilePath)
	warnings = append(warnings, backupWarnings...)
	if len(fallback) > 0 {
		return ExtractResult{Bookmarks: fallback, Store: StoreBackup, Warnings: warnings}
	}
	return ExtractResult{Warnings: warnings}
}

func isHTTPURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
