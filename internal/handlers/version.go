package handlers

import (
	"net/http"
	"time"

	"gif-viewer/internal/startup"
)

// VersionInfo is the /version payload: the build plus the age of the
// index it is serving.
type VersionInfo struct {
	startup.BuildInfo
	IndexedAt *time.Time `json:"indexedAt,omitempty"`
	Uptime    string     `json:"uptime,omitempty"`
}

// GetVersion reports the build the viewer is running and when its index was
// last refreshed. IndexedAt is omitted until the first scan completes.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	info := VersionInfo{BuildInfo: startup.GetBuildInfo()}
	if h.db != nil {
		if at := h.db.LastUpdated(); !at.IsZero() {
			info.IndexedAt = &at
		}
	}
	if !h.startTime.IsZero() {
		info.Uptime = time.Since(h.startTime).Round(time.Second).String()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, info)
}
