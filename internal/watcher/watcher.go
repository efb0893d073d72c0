package watcher

import (
	"path/filepath"
	"strings"
	"time"

	"gallery-builder/internal/logging"
	"gallery-builder/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period collapsing event bursts into a
// single rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Watcher triggers a callback when the media directory or the override
// document changes.
type Watcher struct {
	mediaDir     string
	metadataPath string
	debounce     time.Duration
	onChange     func()

	fsw      *fsnotify.Watcher
	stopChan chan struct{}
}

// New creates a Watcher over the media directory and the override
// document. onChange runs after the debounce window on the watcher's
// goroutine.
func New(mediaDir, metadataPath string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.WatcherErrors.Inc()
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		mediaDir:     mediaDir,
		metadataPath: metadataPath,
		debounce:     debounce,
		onChange:     onChange,
		fsw:          fsw,
		stopChan:     make(chan struct{}),
	}, nil
}

// Start registers the watch paths and begins processing events. It blocks,
// so callers run it in a goroutine.
func (w *Watcher) Start() error {
	if err := w.fsw.Add(w.mediaDir); err != nil {
		metrics.WatcherErrors.Inc()
		return err
	}

	// The override document may not exist yet, so watch its directory and
	// filter events by name.
	metadataDir := filepath.Dir(w.metadataPath)
	if metadataDir != w.mediaDir {
		if err := w.fsw.Add(metadataDir); err != nil {
			logging.Warn("cannot watch metadata directory %s: %v", metadataDir, err)
			metrics.WatcherErrors.Inc()
		}
	}

	logging.Debug("watcher started on %s and %s", w.mediaDir, w.metadataPath)
	w.processEvents()
	return nil
}

// Stop ends event processing and closes the underlying watcher.
func (w *Watcher) Stop() {
	close(w.stopChan)
	if err := w.fsw.Close(); err != nil {
		logging.Error("failed to close file watcher: %v", err)
	}
}

// processEvents consumes fsnotify events, debouncing rebuild triggers.
func (w *Watcher) processEvents() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()
			logging.Debug("filesystem change: %s %s", eventType(event.Op), event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			metrics.WatcherRebuildsTotal.Inc()
			w.onChange()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error: %v", err)
			metrics.WatcherErrors.Inc()
		}
	}
}

// relevant filters out hidden files and unrelated files in the metadata
// directory.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}

	// Events inside the media directory always count; elsewhere only the
	// override document itself does.
	if filepath.Dir(event.Name) == filepath.Clean(w.mediaDir) {
		return true
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.metadataPath)
}

// eventType returns a label for the fsnotify operation.
func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
