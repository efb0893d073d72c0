package metrics

import (
	"net/http"
	"time"

	"gallery-builder/internal/logging"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "error"} {
		ScannerScansTotal.WithLabelValues(status)
		for _, trigger := range []string{"cli", "startup", "api", "watcher"} {
			BuildsTotal.WithLabelValues(trigger, status)
		}
	}

	for _, status := range []string{"success", "absent", "read_error", "parse_error"} {
		MetadataLoadsTotal.WithLabelValues(status)
	}

	for _, t := range []string{"create", "write", "remove", "rename", "chmod", "unknown"} {
		WatcherEventsTotal.WithLabelValues(t)
	}

	for _, t := range []string{"image", "video"} {
		MediaRequestsTotal.WithLabelValues(t)
	}
}

// Serve starts the dedicated metrics listener. It blocks, so callers run
// it in a goroutine; a listen failure is logged rather than fatal because
// metrics are an observability concern, not a serving one.
func Serve(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logging.Info("Metrics server listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Error("Metrics server error: %v", err)
	}
}
