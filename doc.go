// Package main provides the entry point for the GIF viewer.
//
// GIF viewer indexes a single flat directory of GIF files and serves
// paginated HTML listings of them: everything, by owner, by year of last
// modification, and by search query. Filenames follow the
// "owner-words_more.gif" convention; the owner is the text before the first
// '-' or '_', and the display name capitalizes every segment.
//
// # Application Lifecycle
//
//  1. Configuration: flags, environment variables and an optional YAML file
//  2. Initial scan: synchronous; the process exits if the directory cannot
//     be listed
//  3. Component initialization:
//     - Suggester: prefix index over display names
//     - Thumbnail generator: first-frame JPEG posters, optionally cached
//     - Scheduler: rescans every SCAN_FREQUENCY, never overlapping
//     - Metrics collector: index gauges
//  4. HTTP servers: the application and, when enabled, a metrics listener
//  5. Graceful shutdown on SIGINT/SIGTERM
//
// Sending SIGHUP triggers an immediate rescan.
//
// # Background Services
//
//   - Scheduler: rescans the directory; new files are added, nothing is
//     ever removed
//   - Poster warm-up: renders missing cached posters after scans that add
//     files
//   - Metrics collector: updates index gauges every minute
//
// # HTTP Server
//
// The main server (default localhost:8000) serves:
//
//   - / and ?page=N: every GIF
//   - /c/{name}/: GIFs of one owner
//   - /y/{year}/: GIFs last modified in one year
//   - /s/?q=: search results, best match first
//   - /s/suggest and /opensearchdescription.xml: browser search integration
//   - /t/{filename}: poster thumbnails
//   - /gifs/ and /static/: file servers
//   - /healthz, /livez, /readyz, /version
//
// The metrics server (default port 9090) serves /metrics and /healthz.
// With METRICS_ENABLED=false /metrics is mounted on the main server.
//
// # Environment Variables
//
//   - GIFS_DIR: directory to index (or the first argument)
//   - HOST, PORT: listen address (default: localhost:8000)
//   - SCAN_FREQUENCY: seconds or a duration between scans (default: 300)
//   - CACHE_DIR: poster cache; posters are rendered per request without it
//   - STATIC_DIR, TEMPLATES_DIR: override the embedded assets
//   - SUFFIX, IGNORE_FILE, PER_PAGE
//   - METRICS_ENABLED, METRICS_PORT
//   - LOG_LEVEL, LOG_FORMAT, LOG_STATIC_FILES, LOG_HEALTH_CHECKS
//   - REPORT_RATE: error reports per minute
//
// # Related Packages
//
//   - [gif-viewer/internal/database]: in-memory index and scanning
//   - [gif-viewer/internal/handlers]: HTTP request handlers
//   - [gif-viewer/internal/media]: poster thumbnails
//   - [gif-viewer/internal/scheduler]: periodic rescans
//   - [gif-viewer/internal/search]: ranking and suggestions
//   - [gif-viewer/internal/startup]: configuration and startup logging
package main
