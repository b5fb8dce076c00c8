// Package middleware wraps the router with access logging, Prometheus
// request metrics and gzip compression.
package middleware
