package handlers

import (
	"net/http"
	"strings"

	"gallery-builder/internal/filter"
	"gallery-builder/internal/logging"
	"gallery-builder/internal/manifest"
)

// FilterResponse is the payload of the images endpoint: the matching
// records in manifest order plus the query they answered.
type FilterResponse struct {
	Images     []manifest.MediaRecord `json:"images"`
	TotalCount int                    `json:"totalCount"`
	Query      FilterQuery            `json:"query"`
}

// FilterQuery echoes the parsed query back to the client.
type FilterQuery struct {
	Category   string   `json:"category"`
	Attributes []string `json:"attributes"`
	Text       string   `json:"q"`
}

// GetManifest serves the current manifest document.
func (h *Handlers) GetManifest(w http.ResponseWriter, _ *http.Request) {
	m := h.library.Current()
	if m == nil {
		writeJSONError(w, "manifest not built yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, m)
}

// GetImages runs the filter engine over the current manifest.
//
// Query parameters: category (single value, "all" or a concrete
// category), attrs (comma-separated, all required), q (free text).
func (h *Handlers) GetImages(w http.ResponseWriter, r *http.Request) {
	if !h.library.Ready() {
		writeJSONError(w, "manifest not built yet", http.StatusServiceUnavailable)
		return
	}

	q := filter.Query{
		Category: r.URL.Query().Get("category"),
		Text:     r.URL.Query().Get("q"),
	}
	if attrs := r.URL.Query().Get("attrs"); attrs != "" {
		for _, a := range strings.Split(attrs, ",") {
			if a = strings.TrimSpace(a); a != "" {
				q.Attributes = append(q.Attributes, a)
			}
		}
	}

	images := filter.Apply(h.library.Records(), q)

	echoAttrs := q.Attributes
	if echoAttrs == nil {
		echoAttrs = []string{}
	}

	writeJSON(w, FilterResponse{
		Images:     images,
		TotalCount: len(images),
		Query: FilterQuery{
			Category:   q.Category,
			Attributes: echoAttrs,
			Text:       q.Text,
		},
	})
}

// GetAttributes serves the attribute catalog used to populate the
// gallery's multi-select dropdown.
func (h *Handlers) GetAttributes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, filter.BuildCatalog(h.library.Records()))
}

// TriggerRebuild runs a full manifest rebuild.
func (h *Handlers) TriggerRebuild(w http.ResponseWriter, _ *http.Request) {
	m, err := h.library.Rebuild("api")
	if err != nil {
		logging.Error("rebuild failed: %v", err)
		writeJSONError(w, "rebuild failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"status":      "rebuilt",
		"totalCount":  m.TotalCount,
		"generatedAt": m.GeneratedAt,
	})
}
