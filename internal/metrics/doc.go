// Package metrics defines the Prometheus metrics exported by the gallery
// builder and its HTTP front-end.
//
// Metrics are registered at package load via promauto and served on a
// dedicated listener (see Serve) so that scrapes never compete with
// gallery traffic. InitializeMetrics pre-populates known label
// combinations so every series is present from the first scrape.
package metrics
