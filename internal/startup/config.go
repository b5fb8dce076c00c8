package startup

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gif-viewer/internal/logging"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	GIFsDir      string
	Host         string
	Port         int
	StaticDir    string
	TemplatesDir string

	ScanFrequency time.Duration
	Suffix        string
	IgnoreFile    string
	PerPage       int

	CacheDir          string
	ThumbnailsEnabled bool
	ThumbnailWorkers  int

	MetricsEnabled  bool
	MetricsPort     int
	LogStaticFiles  bool
	LogHealthChecks bool
	ReportRate      int
}

// ErrUsage is returned when the command line cannot be used as given.
var ErrUsage = errors.New("usage error")

const defaultScanFrequency = 5 * time.Minute

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("gif-viewer", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gif-viewer [flags] GIFS_DIR\n\n")
		fs.PrintDefaults()
	}

	fs.String("config", "", "optional YAML config file")
	fs.String("host", "localhost", "address to listen on")
	fs.Int("port", 8000, "port to listen on")
	fs.String("static-dir", "", "serve static assets from this directory instead of the embedded ones")
	fs.String("templates-dir", "", "load templates from this directory instead of the embedded ones")
	fs.String("scan-frequency", "300", "seconds between directory scans (or a duration such as 5m)")
	fs.String("suffix", ".gif", "filename suffix of indexed files")
	fs.String("ignore-file", ".gifignore", "gitignore-style exclusion file inside GIFS_DIR")
	fs.Int("per-page", 20, "items per listing page")
	fs.String("cache-dir", "", "poster cache directory")
	fs.Bool("thumbnails", true, "generate poster thumbnails")
	fs.Int("thumbnail-workers", 0, "poster warm-up workers (0 sizes from CPU count)")
	fs.Bool("metrics-enabled", true, "serve Prometheus metrics")
	fs.Int("metrics-port", 9090, "port for the metrics listener")
	fs.Bool("log-static-files", false, "log requests for static assets and GIFs")
	fs.Bool("log-health-checks", true, "log health check requests")
	fs.Int("report-rate", 30, "error reports forwarded per minute")
	return fs
}

// LoadConfig builds the configuration from args, the environment and an
// optional config file, and validates it.
func LoadConfig(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	gifsDir := fs.Arg(0)
	if gifsDir == "" {
		gifsDir = v.GetString("gifs-dir")
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("%w: expected one GIFS_DIR, got %d arguments", ErrUsage, fs.NArg())
	}

	freq, err := ParseFrequency(v.GetString("scan-frequency"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		GIFsDir:           gifsDir,
		Host:              v.GetString("host"),
		Port:              v.GetInt("port"),
		StaticDir:         v.GetString("static-dir"),
		TemplatesDir:      v.GetString("templates-dir"),
		ScanFrequency:     freq,
		Suffix:            v.GetString("suffix"),
		IgnoreFile:        v.GetString("ignore-file"),
		PerPage:           v.GetInt("per-page"),
		CacheDir:          v.GetString("cache-dir"),
		ThumbnailsEnabled: v.GetBool("thumbnails"),
		ThumbnailWorkers:  v.GetInt("thumbnail-workers"),
		MetricsEnabled:    v.GetBool("metrics-enabled"),
		MetricsPort:       v.GetInt("metrics-port"),
		LogStaticFiles:    v.GetBool("log-static-files"),
		LogHealthChecks:   v.GetBool("log-health-checks"),
		ReportRate:        v.GetInt("report-rate"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := config.resolvePaths(); err != nil {
		return nil, err
	}
	return config, nil
}

// ParseFrequency accepts a whole number of seconds or a Go duration.
func ParseFrequency(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultScanFrequency, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid scan frequency %q: %w", s, err)
	}
	return d, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.GIFsDir == "" {
		errs = append(errs, fmt.Errorf("%w: GIFS_DIR is required", ErrUsage))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MetricsEnabled && (c.MetricsPort < 1 || c.MetricsPort > 65535) {
		errs = append(errs, fmt.Errorf("metrics port %d out of range", c.MetricsPort))
	}
	if c.MetricsEnabled && c.MetricsPort == c.Port {
		errs = append(errs, fmt.Errorf("metrics port must differ from port %d", c.Port))
	}
	if c.ScanFrequency <= 0 {
		errs = append(errs, fmt.Errorf("scan frequency must be positive, got %v", c.ScanFrequency))
	}
	if c.Suffix == "" {
		errs = append(errs, errors.New("suffix must not be empty"))
	}
	if c.PerPage < 1 {
		errs = append(errs, fmt.Errorf("per-page must be positive, got %d", c.PerPage))
	}
	return errors.Join(errs...)
}

func (c *Config) resolvePaths() error {
	for _, p := range []*string{&c.GIFsDir, &c.StaticDir, &c.TemplatesDir, &c.CacheDir} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// Addr is the host:port the application listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MetricsAddr is the host:port of the metrics listener.
func (c *Config) MetricsAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.MetricsPort))
}

// PrepareCacheDir creates the poster cache directory and checks it is
// writable. On failure caching is turned off and the reason logged.
func (c *Config) PrepareCacheDir() {
	if c.CacheDir == "" || !c.ThumbnailsEnabled {
		return
	}
	if !setupOptionalDir(c.CacheDir, "poster cache") {
		c.CacheDir = ""
	}
}

// LogConfig prints the effective configuration.
func LogConfig(c *Config) {
	logSection("CONFIGURATION")
	logging.Info("  GIFS_DIR:           %s", c.GIFsDir)
	logging.Info("  HOST:               %s", c.Host)
	logging.Info("  PORT:               %d", c.Port)
	logging.Info("  STATIC_DIR:         %s", orEmbedded(c.StaticDir))
	logging.Info("  TEMPLATES_DIR:      %s", orEmbedded(c.TemplatesDir))
	logging.Info("  SCAN_FREQUENCY:     %v", c.ScanFrequency)
	logging.Info("  SUFFIX:             %s", c.Suffix)
	logging.Info("  IGNORE_FILE:        %s", c.IgnoreFile)
	logging.Info("  PER_PAGE:           %d", c.PerPage)
	logging.Info("  CACHE_DIR:          %s", c.CacheDir)
	logging.Info("  THUMBNAILS:         %s", enabledString(c.ThumbnailsEnabled))
	logging.Info("  METRICS_ENABLED:    %v", c.MetricsEnabled)
	logging.Info("  METRICS_PORT:       %d", c.MetricsPort)
	logging.Info("  LOG_STATIC_FILES:   %v", c.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:  %v", c.LogHealthChecks)
	logging.Info("  REPORT_RATE:        %d/min", c.ReportRate)
	logging.Info("  LOG_LEVEL:          %s", logging.GetLevel())

	if err := checkDirectory(c.GIFsDir); err != nil {
		logging.Warn("  GIFs directory issue: %v", err)
	}
}

func orEmbedded(dir string) string {
	if dir == "" {
		return "(embedded)"
	}
	return dir
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	testFile := filepath.Join(path, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("    failed to remove test file %s: %v", testFile, err)
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

// checkDirectory reports whether path is an existing directory, logging a
// summary of its contents at debug level.
func checkDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if logging.IsDebugEnabled() {
		if entries, err := os.ReadDir(path); err == nil {
			logging.Debug("    Contents: %d entries (top level)", len(entries))
		}
	}
	return nil
}
