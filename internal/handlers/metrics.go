package handlers

import (
	"net/http"

	"gif-viewer/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the default registry. The index gauges are
// refreshed from the live index on every scrape so they never lag a rescan
// that finished between collector ticks.
func (h *Handlers) MetricsHandler() http.Handler {
	exporter := promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorHandling:     promhttp.ContinueOnError,
		EnableOpenMetrics: true,
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.db != nil {
			s := h.db.GetStats()
			metrics.SetIndexStats(metrics.Stats{
				TotalGIFs:   s.TotalGIFs,
				TotalPeople: s.TotalPeople,
				TotalYears:  s.TotalYears,
				TotalBytes:  s.TotalBytes,
			})
		}
		exporter.ServeHTTP(w, r)
	})
}
