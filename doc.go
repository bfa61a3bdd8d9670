// Package sweetmark validates and prunes bookmarks in local Firefox profiles.
//
// It reads the places.sqlite bookmark store (falling back to the compressed
// bookmarkbackups snapshots when the store yields nothing), probes each
// bookmarked URL over HTTP, and can delete confirmed-dead entries inside a
// single backed-up transaction. This is intended for local tooling (CLI
// helpers, cleanup scripts); deletion refuses to run while Firefox is open.
package sweetmark
