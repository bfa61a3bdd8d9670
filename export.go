package sweetmark

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Export writes invalid results to a plain-text file, one block per record in
// discovery order: title, URL, probe status ("Error" for failed probes).
func Export(path string, results []CheckResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sweetmark: failed to create export file: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Invalid Firefox Bookmarks - %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	for i, r := range results {
		fmt.Fprintf(&b, "%d. Title: %s\n", i+1, r.Bookmark.Title)
		fmt.Fprintf(&b, "   URL: %s\n", r.Bookmark.URL)
		fmt.Fprintf(&b, "   Status: %s\n", r.StatusString())
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}

	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return fmt.Errorf("sweetmark: failed to write export file: %w", err)
	}
	return f.Close()
}
