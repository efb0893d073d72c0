package manifest

import (
	"sync"
	"time"
)

// Library holds the current manifest for serve mode. Rebuilds swap the
// manifest atomically; readers always see a complete document, never a
// partially built one.
type Library struct {
	builder *Builder

	// buildMu serializes whole rebuilds so concurrent triggers (watcher,
	// API) cannot interleave manifest file writes; the file on disk always
	// matches the manifest being swapped in.
	buildMu sync.Mutex

	mu        sync.RWMutex
	current   *Manifest
	lastBuild time.Time
	lastError error
}

// NewLibrary creates a Library around the given builder. No build happens
// until Rebuild is called.
func NewLibrary(b *Builder) *Library {
	return &Library{builder: b}
}

// Builder returns the underlying builder.
func (l *Library) Builder() *Builder {
	return l.builder
}

// Rebuild runs a full build-and-write and swaps in the result. On failure
// the previous manifest (if any) stays current. Rebuilds run one at a
// time; a trigger arriving mid-build waits for its own full pass.
func (l *Library) Rebuild(trigger string) (*Manifest, error) {
	l.buildMu.Lock()
	defer l.buildMu.Unlock()

	m, err := l.builder.Run(trigger)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastBuild = time.Now()
	l.lastError = err
	if err != nil {
		return nil, err
	}
	l.current = m
	return m, nil
}

// Current returns the current manifest, or nil if no build has succeeded
// yet. The returned manifest is shared and must be treated as read-only.
func (l *Library) Current() *Manifest {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Records returns the current manifest's records in manifest order, or an
// empty slice before the first successful build.
func (l *Library) Records() []MediaRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.current == nil {
		return []MediaRecord{}
	}
	return l.current.Images
}

// Ready reports whether a manifest is available to serve.
func (l *Library) Ready() bool {
	return l.Current() != nil
}

// LastBuild returns the time and outcome of the most recent rebuild
// attempt.
func (l *Library) LastBuild() (time.Time, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastBuild, l.lastError
}
