package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery-builder/internal/handlers"
	"gallery-builder/internal/logging"
	"gallery-builder/internal/manifest"
	"gallery-builder/internal/metrics"
	"gallery-builder/internal/middleware"
	"gallery-builder/internal/startup"
	"gallery-builder/internal/watcher"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize metrics
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		go metrics.Serve(config.MetricsPort)
	}

	// Build the manifest before accepting traffic. A scan failure at
	// startup is fatal; later rebuild failures keep the previous manifest.
	builder := manifest.NewBuilder(config.MediaDir, config.MetadataPath, config.ManifestPath, config.PathPrefix)
	library := manifest.NewLibrary(builder)

	buildStart := time.Now()
	m, err := library.Rebuild("startup")
	if err != nil {
		startup.LogFatal("Initial manifest build failed: %v", err)
	}
	logging.Info("Built manifest with %d records in %s", m.TotalCount, time.Since(buildStart).Round(time.Millisecond))

	// Watch the media directory and metadata file for changes
	var w *watcher.Watcher
	if config.WatchEnabled {
		w, err = watcher.New(config.MediaDir, config.MetadataPath, config.WatchDebounce, func() {
			if _, err := library.Rebuild("watcher"); err != nil {
				logging.Error("Watcher rebuild failed: %v", err)
			}
		})
		if err != nil {
			startup.LogFatal("Failed to create watcher: %v", err)
		}
		go func() {
			if err := w.Start(); err != nil {
				logging.Error("Watcher stopped: %v", err)
			}
		}()
		logging.Info("Watching %s and %s for changes", config.MediaDir, config.MetadataPath)
	}

	// Initialize handlers
	h := handlers.New(library)

	// Setup router
	router := setupRouter(h, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply metrics middleware
	meteredHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	// Apply compression middleware
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(meteredHandler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, w)

	// Start server
	startup.LogServerStarted(config.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Gallery API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/manifest", h.GetManifest).Methods("GET")
	api.HandleFunc("/images", h.GetImages).Methods("GET")
	api.HandleFunc("/attributes", h.GetAttributes).Methods("GET")
	api.HandleFunc("/rebuild", h.TriggerRebuild).Methods("POST")

	// Admin edit-session routes
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.HandleFunc("/session", h.StartSession).Methods("POST")
	admin.HandleFunc("/session", h.GetSession).Methods("GET")
	admin.HandleFunc("/session/record", h.GetRecord).Methods("GET")
	admin.HandleFunc("/session/record", h.SaveRecord).Methods("POST")
	admin.HandleFunc("/session/select", h.SelectRecord).Methods("POST")
	admin.HandleFunc("/session/next", h.NextRecord).Methods("POST")
	admin.HandleFunc("/session/prev", h.PrevRecord).Methods("POST")
	admin.HandleFunc("/session/document", h.GetDocument).Methods("GET")
	admin.HandleFunc("/session/products", h.GetProducts).Methods("GET")

	// Media files as served to the gallery pages
	prefix := "/" + config.PathPrefix + "/"
	r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.HandlerFunc(h.ServeMedia)))

	// Static files (gallery and admin pages)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(config.StaticDir)))

	return r
}

func handleShutdown(srv *http.Server, w *watcher.Watcher) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if w != nil {
		w.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}

	startup.LogShutdownComplete()
}
