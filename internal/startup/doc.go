// Package startup handles configuration loading and the lifecycle logging
// printed while the server starts and stops.
//
// # Configuration
//
// [LoadConfig] parses command line flags with pflag and layers them over
// environment variables and an optional YAML file using viper. Flags win
// over the environment, which wins over the file. Environment variable
// names are the flag names upper-cased with dashes replaced by
// underscores:
//
//   - GIFS_DIR: directory to index (or the first positional argument)
//   - HOST, PORT: listen address (default localhost:8000)
//   - STATIC_DIR, TEMPLATES_DIR: override the embedded assets
//   - SCAN_FREQUENCY: seconds between scans, or a Go duration (default 300)
//   - CACHE_DIR: poster cache; empty renders posters on demand
//   - THUMBNAILS: enable poster generation (default true)
//   - THUMBNAIL_WORKERS: poster warm-up concurrency
//   - METRICS_ENABLED, METRICS_PORT: Prometheus listener (default true, 9090)
//   - LOG_STATIC_FILES, LOG_HEALTH_CHECKS: access log filters
//   - SUFFIX, IGNORE_FILE: which files are indexed (default .gif, .gifignore)
//   - PER_PAGE: listing page size (default 20)
//   - REPORT_RATE: error reports forwarded per minute (default 30)
//
// # Build Information
//
// Version, Commit and BuildTime are injected with -ldflags and exposed via
// [GetBuildInfo].
//
// # Example Usage
//
//	config, err := startup.LoadConfig(os.Args[1:])
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//	startup.PrintBanner()
//	startup.LogConfig(config)
package startup
