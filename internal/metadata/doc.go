// Package metadata loads and encodes the hand-authored override document
// that supplies categories, products, form factors and features for
// individual gallery files.
//
// The override document is an external input: it is written by a human
// pasting the admin tool's clipboard output into the metadata file. The
// build merges it and never writes it back. Loading is best-effort by
// contract: a missing file yields an empty mapping, and a file that fails
// to parse yields an empty mapping with a warning, never a failed build.
package metadata
