package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gallery-builder/internal/logging"
	"gallery-builder/internal/mediatypes"
	"gallery-builder/internal/metrics"
)

// Scanner lists gallery media files in a flat directory.
type Scanner struct {
	mediaDir string
}

// NewScanner creates a new Scanner for the given media directory.
func NewScanner(mediaDir string) *Scanner {
	return &Scanner{mediaDir: mediaDir}
}

// MediaDir returns the directory this scanner reads.
func (s *Scanner) MediaDir() string {
	return s.mediaDir
}

// Files returns the filenames in the media directory whose extension is on
// the gallery allow-list, in directory-listing order. Subdirectories and
// unrecognized extensions are skipped without comment; the extension is
// the only thing inspected, so dot-prefixed files are admitted like any
// other.
//
// The error covers the directory itself being missing or unreadable; there
// is no partial-result recovery.
func (s *Scanner) Files() ([]string, error) {
	start := time.Now()
	var scanErr error
	defer func() {
		status := "success"
		if scanErr != nil {
			status = "error"
		}
		metrics.ScannerScansTotal.WithLabelValues(status).Inc()
		metrics.ScannerScanDuration.Observe(time.Since(start).Seconds())
	}()

	entries, err := os.ReadDir(s.mediaDir)
	if err != nil {
		scanErr = fmt.Errorf("scanning media directory %s: %w", s.mediaDir, err)
		return nil, scanErr
	}

	var files []string
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !mediatypes.IsGalleryFile(ext) {
			skipped++
			continue
		}
		files = append(files, name)
	}

	metrics.ScannerFilesAccepted.Add(float64(len(files)))
	metrics.ScannerFilesSkipped.Add(float64(skipped))
	logging.Debug("scanned %s: %d media files, %d skipped", s.mediaDir, len(files), skipped)

	return files, nil
}
