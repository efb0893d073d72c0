package startup

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"gallery-builder/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	MediaDir     string
	MetadataPath string
	ManifestPath string
	StaticDir    string
	PathPrefix   string

	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	WatchEnabled    bool
	WatchDebounce   time.Duration
	LogStaticFiles  bool
	LogHealthChecks bool
}

// LoadConfig loads configuration from environment variables, logging
// every effective value.
func LoadConfig() (*Config, error) {
	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	mediaDir := getEnv("MEDIA_DIR", "./images")
	metadataPath := getEnv("METADATA_FILE", "./metadata.json")
	manifestPath := getEnv("MANIFEST_FILE", "./data.json")
	staticDir := getEnv("STATIC_DIR", "./static")
	pathPrefix := getEnv("PATH_PREFIX", "images")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	watchEnabled := getEnvBool("WATCH_ENABLED", true)
	watchDebounceStr := getEnv("WATCH_DEBOUNCE", "500ms")
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)

	logging.Info("  MEDIA_DIR:         %s", mediaDir)
	logging.Info("  METADATA_FILE:     %s", metadataPath)
	logging.Info("  MANIFEST_FILE:     %s", manifestPath)
	logging.Info("  STATIC_DIR:        %s", staticDir)
	logging.Info("  PATH_PREFIX:       %s", pathPrefix)
	logging.Info("  PORT:              %s", port)
	logging.Info("  METRICS_PORT:      %s", metricsPort)
	logging.Info("  METRICS_ENABLED:   %v", metricsEnabled)
	logging.Info("  WATCH_ENABLED:     %v", watchEnabled)
	logging.Info("  WATCH_DEBOUNCE:    %s", watchDebounceStr)
	logging.Info("  LOG_STATIC_FILES:  %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS: %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	watchDebounce, err := time.ParseDuration(watchDebounceStr)
	if err != nil {
		logging.Warn("  Invalid WATCH_DEBOUNCE, using default: 500ms")
		watchDebounce = 500 * time.Millisecond
	}

	if _, err := os.Stat(mediaDir); err != nil {
		return nil, fmt.Errorf("media directory %s is not accessible: %w", mediaDir, err)
	}

	logging.Info("------------------------------------------------------------")

	return &Config{
		MediaDir:        mediaDir,
		MetadataPath:    metadataPath,
		ManifestPath:    manifestPath,
		StaticDir:       staticDir,
		PathPrefix:      pathPrefix,
		Port:            port,
		MetricsPort:     metricsPort,
		MetricsEnabled:  metricsEnabled,
		WatchEnabled:    watchEnabled,
		WatchDebounce:   watchDebounce,
		LogStaticFiles:  logStaticFiles,
		LogHealthChecks: logHealthChecks,
	}, nil
}

// printBanner prints the startup banner
func printBanner() {
	logging.Printf("============================================================")
	logging.Printf("  gallery-builder %s (%s)", Version, Commit)
	logging.Printf("  %s %s/%s", GoVersion, runtime.GOOS, runtime.GOARCH)
	logging.Printf("============================================================")
}

// LogHTTPRoutes walks the router and logs every registered route
func LogHTTPRoutes(router *mux.Router, logStaticFiles bool) {
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP ROUTES")
	logging.Info("------------------------------------------------------------")

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			// PathPrefix routes (static files) have no methods
			if !logStaticFiles {
				return nil
			}
			methods = []string{"*"}
		}
		logging.Info("  %-28s %s", path, strings.Join(methods, ","))
		return nil
	})
	if err != nil {
		logging.Warn("failed to walk routes: %v", err)
	}

	logging.Info("------------------------------------------------------------")
}

// LogServerStarted logs the final startup message
func LogServerStarted(port string, startupDuration time.Duration) {
	logging.Info("Gallery server listening on :%s (started in %s)", port, startupDuration.Round(time.Millisecond))
}

// LogShutdownInitiated logs the beginning of a graceful shutdown
func LogShutdownInitiated(signal string) {
	logging.Info("Received %s, shutting down gracefully...", signal)
}

// LogShutdownComplete logs the end of a graceful shutdown
func LogShutdownComplete() {
	logging.Info("Shutdown complete")
}

// LogFatal logs a fatal error and exits with a non-zero status
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns the environment variable as a bool or a default
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}
