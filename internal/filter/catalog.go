package filter

import (
	"sort"

	"gallery-builder/internal/manifest"
)

// Catalog lists the distinct attribute values present in a manifest,
// split the way the gallery's dropdown presents them.
type Catalog struct {
	FormFactors []string `json:"formFactors"`
	Features    []string `json:"features"`
}

// BuildCatalog collects the sorted distinct form factors and features
// across all records. Both lists are always non-nil.
func BuildCatalog(records []manifest.MediaRecord) Catalog {
	formFactors := map[string]bool{}
	features := map[string]bool{}

	for _, r := range records {
		for _, ff := range r.FormFactors {
			formFactors[ff] = true
		}
		for _, f := range r.Features {
			features[f] = true
		}
	}

	return Catalog{
		FormFactors: sortedKeys(formFactors),
		Features:    sortedKeys(features),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
