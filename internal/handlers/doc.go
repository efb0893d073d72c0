// Package handlers implements the HTTP API for the gallery server: the
// manifest and filter endpoints consumed by the public gallery, the admin
// edit-session endpoints consumed by the tagging tool, and the usual
// health and version surface.
package handlers
