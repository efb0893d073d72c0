package metadata

import (
	"encoding/json"
	"os"

	"gallery-builder/internal/logging"
	"gallery-builder/internal/metrics"
)

// Override is a hand-authored partial record for a single file. Any field
// left empty falls back to the computed default at build time.
//
// The admin flow only ever writes category, product, formFactors and
// features; the remaining fields can still be authored by hand directly in
// the metadata file.
type Override struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Category    string   `json:"category"`
	Product     string   `json:"product,omitempty"`
	FormFactors []string `json:"formFactors,omitempty"`
	Features    []string `json:"features,omitempty"`
	Date        string   `json:"date,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
}

// HasAttributes returns true if the override carries any admin-assigned
// metadata beyond the category.
func (o Override) HasAttributes() bool {
	return o.Product != "" || len(o.FormFactors) > 0 || len(o.Features) > 0
}

// Load reads the override document at path and returns a mapping from
// filename to override record.
//
// A missing file is not an error: the build simply proceeds with computed
// defaults. A file that exists but cannot be parsed is logged as a warning
// and likewise yields an empty mapping; a broken metadata file must never
// abort a build.
func Load(path string) map[string]Override {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("no override document at %s, using defaults", path)
			metrics.MetadataLoadsTotal.WithLabelValues("absent").Inc()
			return map[string]Override{}
		}
		logging.Warn("could not read override document %s, skipping overrides: %v", path, err)
		metrics.MetadataLoadsTotal.WithLabelValues("read_error").Inc()
		return map[string]Override{}
	}

	overrides := map[string]Override{}
	if err := json.Unmarshal(data, &overrides); err != nil {
		logging.Warn("could not parse override document %s, skipping overrides: %v", path, err)
		metrics.MetadataLoadsTotal.WithLabelValues("parse_error").Inc()
		return map[string]Override{}
	}

	metrics.MetadataLoadsTotal.WithLabelValues("success").Inc()
	metrics.MetadataOverridesLoaded.Set(float64(len(overrides)))
	return overrides
}

// Encode renders the override mapping as the human-readable JSON document
// used by the clipboard copy-out flow: 2-space indentation, keys sorted.
func Encode(overrides map[string]Override) ([]byte, error) {
	return json.MarshalIndent(overrides, "", "  ")
}
