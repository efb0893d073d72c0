// Package mediatypes provides shared type definitions and utilities for
// recognizing gallery media files.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains the fixed
// extension allow-list used by the scanner, MIME type lookups for serving,
// and nothing else.
//
// # Extension Detection
//
// Use IsGalleryFile to decide whether a file belongs in the gallery:
//
//	ext := strings.ToLower(filepath.Ext(filename))
//	if mediatypes.IsGalleryFile(ext) {
//	    // include in the manifest
//	}
//
// The allow-list is deliberately closed: png, jpg, jpeg, gif, webp, svg
// and mp4. Everything else is excluded from scans.
package mediatypes
