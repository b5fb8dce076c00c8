package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"gif-viewer/internal/logging"
	"gif-viewer/internal/metrics"
)

const maxSuggestions = 10

// OpenSearch serves the OpenSearch description document.
func (h *Handlers) OpenSearch(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	data := struct{ BaseURL string }{BaseURL: baseURL(r)}
	if err := h.osd.Execute(&buf, data); err != nil {
		h.serverError(w, fmt.Errorf("render %s: %w", openSearchTemplate, err))
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	if _, err := buf.WriteTo(w); err != nil {
		logging.Debug("failed to write response: %v", err)
	}
}

// Suggest answers OpenSearch suggestion queries with [query, [names...]].
func (h *Handlers) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	metrics.SuggestionQueriesTotal.Inc()

	w.Header().Set("Content-Type", "application/x-suggestions+json")
	writeJSON(w, []interface{}{q, h.suggester.Suggest(q, maxSuggestions)})
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
