package manifest

import "strings"

// MediaRecord is one entry in the gallery manifest, derived from a scanned
// file plus its optional override.
//
// Every field except Filename is absent-safe: a missing override value
// means the computed default, never null. Array fields always serialize as
// arrays so the front-ends never see null where they iterate.
type MediaRecord struct {
	ID          string   `json:"id"`
	Path        string   `json:"path"`
	Filename    string   `json:"filename"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	Product     string   `json:"product"`
	FormFactors []string `json:"formFactors"`
	Features    []string `json:"features"`
	Date        *string  `json:"date"`
	Featured    bool     `json:"featured"`
}

// Manifest is the generated document consumed by both front-end apps.
type Manifest struct {
	Images      []MediaRecord `json:"images"`
	TotalCount  int           `json:"totalCount"`
	GeneratedAt string        `json:"generatedAt"`
}

// Attributes returns the union of the record's form factors and features,
// the set the attribute filter matches against.
func (r MediaRecord) Attributes() []string {
	attrs := make([]string, 0, len(r.FormFactors)+len(r.Features))
	attrs = append(attrs, r.FormFactors...)
	attrs = append(attrs, r.Features...)
	return attrs
}

// HasAttribute returns true if attr appears in the record's form factors
// or features.
func (r MediaRecord) HasAttribute(attr string) bool {
	for _, a := range r.FormFactors {
		if a == attr {
			return true
		}
	}
	for _, a := range r.Features {
		if a == attr {
			return true
		}
	}
	return false
}

// SearchText returns the lowercase haystack the free-text filter matches
// against: title, description, filename, tags, category, product, form
// factors and features joined by single spaces.
func (r MediaRecord) SearchText() string {
	parts := make([]string, 0, 6+len(r.Tags)+len(r.FormFactors)+len(r.Features))
	parts = append(parts, r.Title, r.Description, r.Filename)
	parts = append(parts, r.Tags...)
	parts = append(parts, r.Category, r.Product)
	parts = append(parts, r.FormFactors...)
	parts = append(parts, r.Features...)
	return strings.ToLower(strings.Join(parts, " "))
}
