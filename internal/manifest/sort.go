package manifest

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

var digitRun = regexp.MustCompile(`\d+`)

// SortRecords orders records most-recent-first: by date descending when
// both records carry a parseable date, otherwise by the first run of
// digits in the filename compared numerically descending, with reverse
// lexicographic filename order breaking ties.
//
// The numeric tie-break is intentionally naive (first digit run only,
// missing digits compare as zero); manifest order is externally observable
// and front-ends depend on it staying exactly like this.
func SortRecords(records []MediaRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return recordLess(records[i], records[j])
	})
}

// recordLess reports whether a sorts before b.
func recordLess(a, b MediaRecord) bool {
	aDate, aOK := parseDate(a.Date)
	bDate, bOK := parseDate(b.Date)
	if aOK && bOK {
		// Equal dates compare equal; the stable sort keeps listing order.
		return aDate.After(bDate)
	}

	aNum := firstNumber(a.Filename)
	bNum := firstNumber(b.Filename)
	if aNum != bNum {
		return aNum > bNum
	}

	return a.Filename > b.Filename
}

// parseDate interprets an override date string. Dates are authored by
// hand, so both plain dates and full timestamps are accepted; anything
// unparseable is treated as absent.
func parseDate(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, *s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// firstNumber extracts the first run of digits in the filename as an
// integer, or 0 if the filename has no digits.
func firstNumber(filename string) int64 {
	match := digitRun.FindString(filename)
	if match == "" {
		return 0
	}
	n, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		// Digit run too long for int64; treat like no number
		return 0
	}
	return n
}
