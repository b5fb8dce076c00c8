package startup

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
}

func mustLoad(t *testing.T, args []string) *Config {
	t.Helper()
	config, err := LoadConfig(args)
	if err != nil {
		t.Fatalf("LoadConfig(%q): %v", args, err)
	}
	return config
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	config := mustLoad(t, []string{dir})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"GIFsDir", config.GIFsDir, dir},
		{"Host", config.Host, "localhost"},
		{"Port", config.Port, 8000},
		{"ScanFrequency", config.ScanFrequency, 5 * time.Minute},
		{"Suffix", config.Suffix, ".gif"},
		{"IgnoreFile", config.IgnoreFile, ".gifignore"},
		{"PerPage", config.PerPage, 20},
		{"StaticDir", config.StaticDir, ""},
		{"TemplatesDir", config.TemplatesDir, ""},
		{"ThumbnailsEnabled", config.ThumbnailsEnabled, true},
		{"MetricsEnabled", config.MetricsEnabled, true},
		{"MetricsPort", config.MetricsPort, 9090},
		{"LogHealthChecks", config.LogHealthChecks, true},
		{"LogStaticFiles", config.LogStaticFiles, false},
		{"Addr", config.Addr(), "localhost:8000"},
		{"MetricsAddr", config.MetricsAddr(), "localhost:9090"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadConfigFlags(t *testing.T) {
	config := mustLoad(t, []string{
		"--host", "0.0.0.0",
		"--port", "8081",
		"--scan-frequency", "60",
		"--per-page", "50",
		"--metrics-enabled=false",
		t.TempDir(),
	})

	if config.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", config.Host)
	}
	if config.Port != 8081 {
		t.Errorf("Port = %d, want 8081", config.Port)
	}
	if config.ScanFrequency != time.Minute {
		t.Errorf("ScanFrequency = %v, want 1m", config.ScanFrequency)
	}
	if config.PerPage != 50 {
		t.Errorf("PerPage = %d, want 50", config.PerPage)
	}
	if config.MetricsEnabled {
		t.Error("MetricsEnabled = true, want false")
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GIFS_DIR", dir)
	t.Setenv("PORT", "9000")
	t.Setenv("SCAN_FREQUENCY", "90s")
	t.Setenv("LOG_STATIC_FILES", "true")

	config := mustLoad(t, nil)

	if config.GIFsDir != dir {
		t.Errorf("GIFsDir = %q, want %q", config.GIFsDir, dir)
	}
	if config.Port != 9000 {
		t.Errorf("Port = %d, want 9000", config.Port)
	}
	if config.ScanFrequency != 90*time.Second {
		t.Errorf("ScanFrequency = %v, want 90s", config.ScanFrequency)
	}
	if !config.LogStaticFiles {
		t.Error("LogStaticFiles = false, want true")
	}
}

func TestLoadConfigFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")

	config := mustLoad(t, []string{"--port", "7000", t.TempDir()})
	if config.Port != 7000 {
		t.Errorf("Port = %d, want 7000", config.Port)
	}
}

func TestLoadConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(file, []byte("port: 8123\nper-page: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config := mustLoad(t, []string{"--config", file, t.TempDir()})
	if config.Port != 8123 {
		t.Errorf("Port = %d, want 8123", config.Port)
	}
	if config.PerPage != 5 {
		t.Errorf("PerPage = %d, want 5", config.PerPage)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{"missing dir", nil, true},
		{"two dirs", []string{dir, dir}, true},
		{"unknown flag", []string{"--nope", dir}, true},
		{"bad port", []string{"--port", "70000", dir}, false},
		{"bad frequency", []string{"--scan-frequency", "soon", dir}, false},
		{"zero frequency", []string{"--scan-frequency", "0", dir}, false},
		{"empty suffix", []string{"--suffix", "", dir}, false},
		{"port clash", []string{"--port", "9090", dir}, false},
		{"missing config file", []string{"--config", filepath.Join(dir, "none.yaml"), dir}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GIFS_DIR", "")
			_, err := LoadConfig(tt.args)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrUsage); got != tt.usage {
				t.Errorf("errors.Is(err, ErrUsage) = %v, want %v (err: %v)", got, tt.usage, err)
			}
		})
	}
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"300", 5 * time.Minute, false},
		{"", 5 * time.Minute, false},
		{"2m30s", 150 * time.Second, false},
		{" 10 ", 10 * time.Second, false},
		{"often", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseFrequency(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFrequency(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFrequency(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPrepareCacheDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	config := &Config{CacheDir: dir, ThumbnailsEnabled: true}
	config.PrepareCacheDir()
	if config.CacheDir != dir {
		t.Errorf("CacheDir = %q, want %q", config.CacheDir, dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("cache dir not created: %v", err)
	}

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	config = &Config{CacheDir: filepath.Join(blocker, "cache"), ThumbnailsEnabled: true}
	config.PrepareCacheDir()
	if config.CacheDir != "" {
		t.Errorf("CacheDir = %q, want it cleared when the directory cannot be made", config.CacheDir)
	}
}

func TestGetRoutes(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/", func(http.ResponseWriter, *http.Request) {}).Methods(http.MethodGet).Name("index")
	r.HandleFunc("/c/{name}/", func(http.ResponseWriter, *http.Request) {}).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix("/static/").Handler(http.NotFoundHandler())

	routes, err := GetRoutes(r)
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}

	for _, want := range []RouteInfo{
		{Method: http.MethodGet, Path: "/", Name: "index"},
		{Method: http.MethodHead, Path: "/c/{name}/"},
		{Method: "*", Path: "/static/"},
	} {
		if !slices.Contains(routes, want) {
			t.Errorf("routes missing %+v", want)
		}
	}
}

func TestRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", ""},
		{"/c/{name}/", "c"},
		{"/healthz", "healthz"},
	}
	for _, tt := range tests {
		if got := routeGroup(tt.path); got != tt.want {
			t.Errorf("routeGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
