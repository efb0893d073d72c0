// Command gallery-build runs a single manifest build and exits. It is the
// batch-mode counterpart of the gallery server, for CI pipelines and
// pre-deploy hooks that only need the manifest file refreshed.
package main

import (
	"fmt"
	"os"
	"time"

	"gallery-builder/internal/manifest"
	"gallery-builder/internal/startup"
)

func main() {
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	builder := manifest.NewBuilder(config.MediaDir, config.MetadataPath, config.ManifestPath, config.PathPrefix)

	start := time.Now()
	m, err := builder.Run("cli")
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s: %d records (generated %s, took %s)\n",
		config.ManifestPath, m.TotalCount, m.GeneratedAt, time.Since(start).Round(time.Millisecond))
}
