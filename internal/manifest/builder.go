package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"gallery-builder/internal/logging"
	"gallery-builder/internal/metadata"
	"gallery-builder/internal/metrics"
	"gallery-builder/internal/scan"
)

// Builder owns manifest construction: it joins the scanner's file list
// with the override document and is the sole writer of the manifest file.
type Builder struct {
	scanner      *scan.Scanner
	metadataPath string
	outputPath   string
	pathPrefix   string
}

// NewBuilder creates a Builder that scans mediaDir, merges the override
// document at metadataPath, and writes the manifest to outputPath.
// Record paths are pathPrefix + "/" + filename, with forward slashes
// regardless of platform since the consumers are browsers.
func NewBuilder(mediaDir, metadataPath, outputPath, pathPrefix string) *Builder {
	return &Builder{
		scanner:      scan.NewScanner(mediaDir),
		metadataPath: metadataPath,
		outputPath:   outputPath,
		pathPrefix:   pathPrefix,
	}
}

// OutputPath returns the manifest file location.
func (b *Builder) OutputPath() string {
	return b.outputPath
}

// MetadataPath returns the override document location.
func (b *Builder) MetadataPath() string {
	return b.metadataPath
}

// MediaDir returns the scanned media directory.
func (b *Builder) MediaDir() string {
	return b.scanner.MediaDir()
}

// Build scans the media directory, merges overrides and returns a freshly
// ordered manifest without writing it. A scan failure is the only error;
// a missing or broken override document degrades to defaults.
//
// The trigger label ("cli", "startup", "api", "watcher") only feeds
// metrics.
func (b *Builder) Build(trigger string) (*Manifest, error) {
	start := time.Now()

	files, err := b.scanner.Files()
	if err != nil {
		metrics.BuildsTotal.WithLabelValues(trigger, "error").Inc()
		return nil, err
	}

	overrides := metadata.Load(b.metadataPath)

	records := MergeRecords(files, overrides, b.pathPrefix)
	SortRecords(records)

	m := &Manifest{
		Images:      records,
		TotalCount:  len(records),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	metrics.BuildsTotal.WithLabelValues(trigger, "success").Inc()
	metrics.BuildDuration.Observe(time.Since(start).Seconds())
	metrics.BuildLastTimestamp.SetToCurrentTime()
	metrics.ManifestRecords.Set(float64(len(records)))

	logging.Debug("built manifest: %d records in %s", len(records), time.Since(start))
	return m, nil
}

// Run builds the manifest and writes it to the output path, replacing any
// previous manifest in full.
func (b *Builder) Run(trigger string) (*Manifest, error) {
	m, err := b.Build(trigger)
	if err != nil {
		return nil, err
	}
	if err := b.Write(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Write serializes the manifest with 2-space indentation, overwriting the
// previous manifest document.
func (b *Builder) Write(m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(b.outputPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", b.outputPath, err)
	}
	return nil
}

// MergeRecords produces one MediaRecord per scanned filename: override
// fields win when present and non-empty, everything else takes the
// computed default.
func MergeRecords(files []string, overrides map[string]metadata.Override, pathPrefix string) []MediaRecord {
	records := make([]MediaRecord, 0, len(files))
	for _, filename := range files {
		records = append(records, newRecord(filename, overrides[filename], pathPrefix))
	}
	return records
}

// newRecord derives a single record from a filename and its override.
func newRecord(filename string, o metadata.Override, pathPrefix string) MediaRecord {
	r := MediaRecord{
		ID:          filename,
		Path:        path.Join(pathPrefix, filename),
		Filename:    filename,
		Title:       stripExtension(filename),
		Tags:        []string{},
		FormFactors: []string{},
		Features:    []string{},
	}

	if o.Title != "" {
		r.Title = o.Title
	}
	if o.Description != "" {
		r.Description = o.Description
	}
	if len(o.Tags) > 0 {
		r.Tags = o.Tags
	}
	if o.Category != "" {
		r.Category = o.Category
	}
	if o.Product != "" {
		r.Product = o.Product
	}
	if len(o.FormFactors) > 0 {
		r.FormFactors = o.FormFactors
	}
	if len(o.Features) > 0 {
		r.Features = o.Features
	}
	if o.Date != "" {
		date := o.Date
		r.Date = &date
	}
	if o.Featured {
		r.Featured = true
	}

	return r
}

// stripExtension removes the final extension from a filename for the
// default title.
func stripExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx <= 0 {
		return filename
	}
	return filename[:idx]
}
