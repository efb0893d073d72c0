// Package session implements the admin tagging workflow: an in-memory
// override mapping seeded from the loaded metadata document, a current
// edit target that walks the manifest in order, and the clipboard document
// that carries edits back to the metadata file.
//
// Persistence is deliberately absent. A save updates only the in-memory
// mapping; the human copies the rendered document to the clipboard and
// pastes it into the metadata file themselves. That copy-out/paste-back
// boundary is part of the design, not a missing feature.
package session
