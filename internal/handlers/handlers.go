package handlers

import (
	"sync"
	"time"

	"gallery-builder/internal/manifest"
	"gallery-builder/internal/session"
)

// Handlers bundles the HTTP handlers and their shared state.
type Handlers struct {
	library   *manifest.Library
	startTime time.Time

	// One edit session at a time; starting a new session discards
	// the old one.
	adminMu sync.Mutex
	admin   *session.Session
}

// New creates the handler set around the manifest library.
func New(library *manifest.Library) *Handlers {
	return &Handlers{
		library:   library,
		startTime: time.Now(),
	}
}
