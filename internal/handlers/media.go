package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gallery-builder/internal/mediatypes"
	"gallery-builder/internal/metrics"
)

// ServeMedia serves one media file from the flat media directory, with the
// Content-Type derived from the gallery extension allow-list. The caller
// strips the path prefix, so the URL path is just the filename.
func (h *Handlers) ServeMedia(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" || strings.ContainsAny(name, "/\\") {
		writeJSONError(w, "not found", http.StatusNotFound)
		return
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !mediatypes.IsGalleryFile(ext) {
		writeJSONError(w, "not found", http.StatusNotFound)
		return
	}

	path := filepath.Join(h.library.Builder().MediaDir(), name)
	if _, err := os.Stat(path); err != nil {
		writeJSONError(w, "not found", http.StatusNotFound)
		return
	}

	metrics.MediaRequestsTotal.WithLabelValues(string(mediatypes.GetFileType(ext))).Inc()
	w.Header().Set("Content-Type", mediatypes.GetMimeType(ext))
	http.ServeFile(w, r, path)
}
