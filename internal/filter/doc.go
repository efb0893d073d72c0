// Package filter implements the gallery's query engine: the AND
// composition of a category filter, a multi-attribute filter and a
// free-text search over the manifest.
//
// The engine filters, it never re-sorts: results preserve manifest order.
// Every query is recomputed from scratch over the full record list, which
// is fine at gallery scale (tens to low thousands of records, cheap
// per-record predicates).
package filter
