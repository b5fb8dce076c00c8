package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gif-viewer/internal/startup"
)

func TestGetVersion(t *testing.T) {
	t.Parallel()

	h := &Handlers{}

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	w := httptest.NewRecorder()
	h.GetVersion(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected Cache-Control no-cache, got %q", cc)
	}

	var info VersionInfo
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.Version != startup.Version {
		t.Errorf("expected version %q, got %q", startup.Version, info.Version)
	}
	if info.GoVersion == "" {
		t.Error("expected GoVersion to be set")
	}
	if info.IndexedAt != nil {
		t.Errorf("expected no indexedAt without an index, got %v", info.IndexedAt)
	}
}

func TestGetVersionReportsIndexAge(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	w := httptest.NewRecorder()
	env.h.GetVersion(w, req)

	var info VersionInfo
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.IndexedAt == nil {
		t.Fatal("expected indexedAt after the initial scan")
	}
	if !info.IndexedAt.Equal(env.db.LastUpdated()) {
		t.Errorf("expected indexedAt %v, got %v", env.db.LastUpdated(), *info.IndexedAt)
	}
	if info.Uptime == "" {
		t.Error("expected uptime to be set")
	}
}
