package handlers

import (
	"net/http"
	"runtime"
	"time"

	"gif-viewer/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Ready     bool   `json:"ready"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Scanning  bool   `json:"scanning"`
	ScanRuns  int    `json:"scanRuns"`
	LastScan  string `json:"lastScan,omitempty"`
	LastError string `json:"lastError,omitempty"`

	TotalGIFs   int   `json:"totalGifs"`
	TotalPeople int   `json:"totalPeople"`
	TotalYears  int   `json:"totalYears"`
	TotalBytes  int64 `json:"totalBytes"`

	PosterCacheBytes int64 `json:"posterCacheBytes,omitempty"`
	PosterCacheCount int   `json:"posterCacheCount,omitempty"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

func (h *Handlers) ready() bool {
	return !h.db.LastUpdated().IsZero()
}

// HealthCheck returns the health status of the service. A failing rescan
// marks the service degraded but keeps it serving the last good index.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	stats := h.db.GetStats()

	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        h.ready(),
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		TotalGIFs:    stats.TotalGIFs,
		TotalPeople:  stats.TotalPeople,
		TotalYears:   stats.TotalYears,
		TotalBytes:   stats.TotalBytes,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if h.scheduler != nil {
		s := h.scheduler.GetHealthStatus()
		response.Scanning = s.Scanning
		response.ScanRuns = s.Runs
		response.LastError = s.LastError
		if !s.LastScan.IsZero() {
			response.LastScan = s.LastScan.Format(time.RFC3339)
		}
	}

	response.PosterCacheBytes, response.PosterCacheCount = h.thumbGen.CacheSize()

	switch {
	case !response.Ready:
		response.Status = statusStarting
	case response.LastError != "":
		response.Status = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 once the index has completed a scan.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.ready() {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{"status": "ready"})
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	writeJSON(w, map[string]string{"status": "not_ready"})
}
