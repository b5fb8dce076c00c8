package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gif-viewer/internal/scheduler"
)

type fakeScheduler struct {
	status scheduler.HealthStatus
}

func (f fakeScheduler) GetHealthStatus() scheduler.HealthStatus {
	return f.status
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, withScheduler(fakeScheduler{status: scheduler.HealthStatus{
		Runs:     3,
		LastScan: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	env.h.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != statusHealthy {
		t.Errorf("expected status %q, got %q", statusHealthy, resp.Status)
	}
	if !resp.Ready {
		t.Error("expected ready to be true")
	}
	if resp.TotalGIFs != 26 {
		t.Errorf("expected 26 GIFs, got %d", resp.TotalGIFs)
	}
	if resp.TotalPeople != 2 || resp.TotalYears != 2 {
		t.Errorf("expected 2 people and 2 years, got %d and %d", resp.TotalPeople, resp.TotalYears)
	}
	if resp.ScanRuns != 3 {
		t.Errorf("expected 3 scan runs, got %d", resp.ScanRuns)
	}
	if resp.LastScan != "2024-01-02T03:04:05Z" {
		t.Errorf("unexpected lastScan %q", resp.LastScan)
	}
	if resp.GoVersion == "" || resp.NumCPU == 0 {
		t.Error("expected runtime information")
	}
}

func TestHealthCheckDegraded(t *testing.T) {
	env := newTestEnv(t, withScheduler(fakeScheduler{status: scheduler.HealthStatus{
		Runs:      1,
		LastError: "scan /gifs: permission denied",
	}}))

	w := httptest.NewRecorder()
	env.h.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("degraded service should still answer 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != statusDegraded {
		t.Errorf("expected status %q, got %q", statusDegraded, resp.Status)
	}
	if resp.LastError == "" {
		t.Error("expected lastError to be set")
	}
}

func TestLivenessCheck(t *testing.T) {
	t.Parallel()

	h := &Handlers{}

	tests := []struct {
		method   string
		wantBody bool
	}{
		{http.MethodGet, true},
		{http.MethodHead, false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.LivenessCheck(w, httptest.NewRequest(tt.method, "/livez", nil))

			if w.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", w.Code)
			}
			if got := w.Body.Len() > 0; got != tt.wantBody {
				t.Errorf("body present = %v, want %v", got, tt.wantBody)
			}
		})
	}
}

func TestReadinessCheck(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.h.ReadinessCheck(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ready" {
		t.Errorf("expected status ready, got %q", resp["status"])
	}
}

func TestHealthCheckReportsPosterCache(t *testing.T) {
	env := newTestEnv(t, withThumbnails(t.TempDir()))

	decode := func() HealthResponse {
		t.Helper()
		w := httptest.NewRecorder()
		env.h.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		var resp HealthResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp
	}

	if resp := decode(); resp.PosterCacheCount != 0 || resp.PosterCacheBytes != 0 {
		t.Errorf("expected an empty poster cache, got %d files, %d bytes", resp.PosterCacheCount, resp.PosterCacheBytes)
	}

	poster := env.get(t, "/t/paul-dog.gif")
	wantStatus(t, poster, http.StatusOK)

	resp := decode()
	if resp.PosterCacheCount != 1 {
		t.Errorf("expected 1 cached poster, got %d", resp.PosterCacheCount)
	}
	if resp.PosterCacheBytes != int64(poster.Body.Len()) {
		t.Errorf("expected %d cached bytes, got %d", poster.Body.Len(), resp.PosterCacheBytes)
	}
}
