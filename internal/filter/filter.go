package filter

import (
	"strings"
	"time"

	"gallery-builder/internal/manifest"
	"gallery-builder/internal/metrics"
)

// CategoryAll is the sentinel category that matches every record.
const CategoryAll = "all"

// Query is one gallery filter state. Zero value matches everything.
type Query struct {
	// Category is "all" (or empty) for no category filtering, otherwise an
	// exact, case-sensitive category value.
	Category string
	// Attributes are required to ALL be present in a record's form factors
	// and features combined.
	Attributes []string
	// Text is a case-insensitive substring matched against the record's
	// searchable fields. Leading and trailing whitespace is ignored.
	Text string
}

// Apply returns the records matching every predicate of the query, in
// manifest order. The result is always non-nil.
func Apply(records []manifest.MediaRecord, q Query) []manifest.MediaRecord {
	start := time.Now()

	term := strings.ToLower(strings.TrimSpace(q.Text))

	matched := []manifest.MediaRecord{}
	for _, r := range records {
		if !matchesCategory(r, q.Category) {
			continue
		}
		if !matchesAttributes(r, q.Attributes) {
			continue
		}
		if !matchesText(r, term) {
			continue
		}
		matched = append(matched, r)
	}

	metrics.FilterQueriesTotal.Inc()
	metrics.FilterQueryDuration.Observe(time.Since(start).Seconds())
	metrics.FilterResultsReturned.Observe(float64(len(matched)))

	return matched
}

// matchesCategory applies the single-select category predicate.
func matchesCategory(r manifest.MediaRecord, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	return r.Category == category
}

// matchesAttributes applies the multi-select AND predicate: every required
// attribute must appear in the record's form factors or features.
func matchesAttributes(r manifest.MediaRecord, required []string) bool {
	for _, attr := range required {
		if !r.HasAttribute(attr) {
			return false
		}
	}
	return true
}

// matchesText applies the free-text predicate. The term must already be
// trimmed and lowercased.
func matchesText(r manifest.MediaRecord, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(r.SearchText(), term)
}
