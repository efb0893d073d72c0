// Package manifest builds the gallery manifest: the single JSON document
// listing every media record, consumed read-only by the gallery and admin
// front-ends.
//
// A build is a full rebuild every time. The scanner's file list is joined
// with the hand-authored override document, missing fields fall back to
// computed defaults, records are placed into a deterministic total order,
// and the result is serialized over whatever manifest existed before.
//
// The ordering rule is externally observable and deliberately frozen:
// date descending when both records carry a date, otherwise the first run
// of digits in the filename compared numerically descending, with reverse
// lexicographic filename order breaking ties.
//
// Library wraps a Builder for serve mode, holding the current manifest
// behind a lock so rebuilds swap atomically under concurrent readers.
package manifest
