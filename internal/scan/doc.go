// Package scan lists the media files that belong in the gallery.
//
// The media directory is flat: the scanner reads a single directory level,
// keeps files whose extension is on the gallery allow-list, and silently
// skips subdirectories and everything else. Only names are inspected,
// never file contents.
//
// A scan either fully succeeds or fully fails: a missing or unreadable
// directory is an error with no partial results, and that error is fatal
// to a build.
package scan
