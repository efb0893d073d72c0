package session

import (
	"fmt"
	"sort"
	"sync"

	"gallery-builder/internal/manifest"
	"gallery-builder/internal/metadata"
	"gallery-builder/internal/metrics"

	"github.com/google/uuid"
)

// Session is one admin edit session over a manifest snapshot. All methods
// are safe for concurrent use, though the workflow assumes a single
// editor.
type Session struct {
	id      string
	records []manifest.MediaRecord
	index   map[string]int

	mu        sync.Mutex
	overrides map[string]metadata.Override
	current   int
	done      bool
}

// SaveInput is the override payload for the current edit target. It
// mirrors the admin form: the only fields the admin flow ever writes.
type SaveInput struct {
	Category    string   `json:"category"`
	Product     string   `json:"product"`
	FormFactors []string `json:"formFactors"`
	Features    []string `json:"features"`
}

// New starts a session over the given manifest records, seeded with the
// overrides loaded from the metadata document. The first record in
// manifest order becomes the edit target.
func New(records []manifest.MediaRecord, seed map[string]metadata.Override) *Session {
	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.Filename] = i
	}

	overrides := make(map[string]metadata.Override, len(seed))
	for k, v := range seed {
		overrides[k] = v
	}

	metrics.SessionStartsTotal.Inc()

	return &Session{
		id:        uuid.NewString(),
		records:   records,
		index:     index,
		overrides: overrides,
		done:      len(records) == 0,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// TotalCount returns the number of records in the session's manifest
// snapshot.
func (s *Session) TotalCount() int {
	return len(s.records)
}

// Done reports whether the session has walked past the last record.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Current returns the current edit target and its override. ok is false
// when the session is complete or the manifest is empty.
func (s *Session) Current() (record manifest.MediaRecord, override metadata.Override, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return manifest.MediaRecord{}, metadata.Override{}, false
	}
	r := s.records[s.current]
	return r, s.overrides[r.Filename], true
}

// Select makes the named record the edit target, reopening the session if
// it was complete.
func (s *Session) Select(filename string) error {
	i, ok := s.index[filename]
	if !ok {
		return fmt.Errorf("no record %q in manifest", filename)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = i
	s.done = false
	return nil
}

// Next moves the edit target forward one record in manifest order.
// Returns false when already on the last record.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || s.current+1 >= len(s.records) {
		return false
	}
	s.current++
	return true
}

// Prev moves the edit target back one record. Returns false when already
// on the first record.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || s.current == 0 {
		return false
	}
	s.current--
	return true
}

// Save replaces the current target's entire override record and advances
// to the next record in manifest order. Empty product and empty attribute
// lists are dropped from the stored record so the override document stays
// minimal; the category key is always kept. Returns false when the saved
// record was the last one, which completes the session.
func (s *Session) Save(in SaveInput) (advanced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return false
	}

	target := s.records[s.current].Filename

	// Whole-record replacement: partial updates are not supported, and any
	// hand-authored fields (title, tags, date...) on the old override are
	// intentionally discarded.
	o := metadata.Override{Category: in.Category}
	if in.Product != "" {
		o.Product = in.Product
	}
	if len(in.FormFactors) > 0 {
		o.FormFactors = in.FormFactors
	}
	if len(in.Features) > 0 {
		o.Features = in.Features
	}
	s.overrides[target] = o

	metrics.SessionSavesTotal.Inc()

	if s.current+1 < len(s.records) {
		s.current++
		return true
	}
	s.done = true
	return false
}

// Overrides returns a copy of the session's current override mapping.
func (s *Session) Overrides() map[string]metadata.Override {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]metadata.Override, len(s.overrides))
	for k, v := range s.overrides {
		out[k] = v
	}
	return out
}

// Document renders the override mapping as the clipboard payload: the
// 2-space-indented JSON the admin pastes back into the metadata file.
func (s *Session) Document() ([]byte, error) {
	metrics.SessionDocumentsTotal.Inc()
	return metadata.Encode(s.Overrides())
}

// EditedCount returns how many records carry admin-assigned metadata
// beyond a bare category.
func (s *Session) EditedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, o := range s.overrides {
		if o.HasAttributes() {
			count++
		}
	}
	return count
}

// Products returns the sorted distinct product names across all
// overrides, used for the admin form's suggestion list.
func (s *Session) Products() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := map[string]bool{}
	for _, o := range s.overrides {
		if o.Product != "" {
			set[o.Product] = true
		}
	}
	products := make([]string, 0, len(set))
	for p := range set {
		products = append(products, p)
	}
	sort.Strings(products)
	return products
}
