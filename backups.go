package sweetmark

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

const (
	backupDir    = "bookmarkbackups"
	backupSuffix = ".jsonlz4"

	// mozLz4Magic precedes the compressed payload in every snapshot file.
	// The 4 bytes after it hold the little-endian uncompressed size, then a
	// raw lz4 block follows.
	mozLz4Magic = "mozLz40\x00"

	// maxBackupSize caps how much a snapshot may claim to decompress to.
	maxBackupSize = 512 << 20
)

// backupNode is one node of the snapshot tree. Folders carry Children,
// bookmark leaves carry URI; either may be absent.
type backupNode struct {
	Title    string       `json:"title"`
	URI      string       `json:"uri"`
	Children []backupNode `json:"children"`
}

// extractFromBackup reads bookmarks out of the most recent bookmarkbackups
// snapshot. Records from this source carry no row identity and cannot be
// deleted. Missing directory, no snapshot files, and corrupt snapshots are all
// soft failures: empty result plus a warning.
func extractFromBackup(profilePath string) ([]Bookmark, []string) {
	dir := filepath.Join(profilePath, backupDir)
	latest, warnings := latestBackupFile(dir)
	if latest == "" {
		return nil, warnings
	}

	raw, err := os.ReadFile(latest)
	if err != nil {
		return nil, append(warnings, fmt.Sprintf("sweetmark: failed to read backup %q: %v", latest, err))
	}
	decompressed, err := mozLz4Decode(raw)
	if err != nil {
		return nil, append(warnings, fmt.Sprintf("sweetmark: failed to decode backup %q: %v", latest, err))
	}

	var root backupNode
	if err := json.Unmarshal(decompressed, &root); err != nil {
		return nil, append(warnings, fmt.Sprintf("sweetmark: failed to parse backup %q: %v", latest, err))
	}

	source := Source{Store: StoreBackup, Profile: filepath.Base(profilePath), StorePath: latest}
	return collectLeaves(root, source, nil), warnings
}

func latestBackupFile(dir string) (string, []string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", []string{fmt.Sprintf("sweetmark: no %s directory in profile", backupDir)}
	}

	var latest string
	var latestMod int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), backupSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().UnixNano() > latestMod {
			latest = filepath.Join(dir, e.Name())
			latestMod = info.ModTime().UnixNano()
		}
	}
	if latest == "" {
		return "", []string{fmt.Sprintf("sweetmark: no %s files in %q", backupSuffix, dir)}
	}
	return latest, nil
}

func mozLz4Decode(raw []byte) ([]byte, error) {
	if len(raw) < len(mozLz4Magic)+4 {
		return nil, fmt.Errorf("truncated mozLz4 file (%d bytes)", len(raw))
	}
	if string(raw[:len(mozLz4Magic)]) != mozLz4Magic {
		return nil, fmt.Errorf("bad mozLz4 magic %q", raw[:len(mozLz4Magic)])
	}

	size := binary.LittleEndian.Uint32(raw[len(mozLz4Magic):])
	if size > maxBackupSize {
		return nil, fmt.Errorf("implausible uncompressed size %d", size)
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(raw[len(mozLz4Magic)+4:], out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// collectLeaves walks the snapshot tree to arbitrary depth, gathering every
// leaf with an HTTP(S) URI. Folder nodes themselves are never collected.
func collectLeaves(node backupNode, source Source, acc []Bookmark) []Bookmark {
	if len(node.Children) > 0 {
		for _, child := range node.Children {
			acc = collectLeaves(child, source, acc)
		}
		return acc
	}
	if !isHTTPURL(node.URI) {
		return acc
	}
	title := node.Title
	if title == "" {
		title = untitled
	}
	return append(acc, Bookmark{Title: title, URL: node.URI, Source: source})
}
