package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gif-viewer/internal/database"
	"gif-viewer/internal/filesystem"
	"gif-viewer/internal/handlers"
	"gif-viewer/internal/logging"
	"gif-viewer/internal/media"
	"gif-viewer/internal/memory"
	"gif-viewer/internal/metrics"
	"gif-viewer/internal/middleware"
	"gif-viewer/internal/reporting"
	"gif-viewer/internal/scheduler"
	"gif-viewer/internal/search"
	"gif-viewer/internal/startup"
	"gif-viewer/internal/workers"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	startTime := time.Now()

	memory.ConfigureFromEnv()

	config, err := startup.LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, startup.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		startup.LogFatal("Configuration error: %v", err)
	}

	startup.PrintBanner()
	startup.LogConfig(config)

	metrics.InitializeMetrics()
	build := startup.GetBuildInfo()
	metrics.SetAppInfo(build.Version, build.Commit, build.GoVersion)

	config.PrepareCacheDir()
	volumes := map[string]string{"gifs": config.GIFsDir}
	if config.CacheDir != "" {
		volumes["cache"] = config.CacheDir
	}
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(volumes))
	workers.SetOverride(config.ThumbnailWorkers)

	reporter := reporting.NewLogReporter(config.ReportRate)

	// Initial scan; failure here is fatal.
	scanStart := time.Now()
	db, err := database.New(config.GIFsDir,
		database.WithSuffix(config.Suffix),
		database.WithIgnoreFile(config.IgnoreFile),
	)
	if err != nil {
		startup.LogFatal("Initial scan failed: %v", err)
	}
	startup.LogIndexInit(db.Count(), time.Since(scanStart))

	suggester := search.NewSuggester()
	suggester.Rebuild(db)

	monitor := memory.NewMonitor(memory.DefaultConfig())
	thumbs := media.NewThumbnailGenerator(config.CacheDir, config.ThumbnailsEnabled)
	thumbs.SetGate(monitor)
	startup.LogThumbnailInit(thumbs.IsEnabled(), thumbs.CacheDir(), workers.ForCPU(4))

	collector := metrics.NewCollector(&dbStatsAdapter{db: db}, time.Minute)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	warm := newWarmer(ctx, thumbs, db)
	warm.start()

	startup.LogSchedulerInit(config.ScanFrequency)
	sched := scheduler.New(db, config.ScanFrequency, reporter)
	sched.OnResult(func(res scheduler.Result) {
		if !res.OK() {
			return
		}
		collector.Collect()
		if res.Added > 0 {
			suggester.Rebuild(db)
			warm.start()
		}
	})

	h, err := handlers.New(db, handlers.Deps{
		Scheduler:  sched,
		Thumbnails: thumbs,
		Suggester:  suggester,
		Reporter:   reporter,
	}, config)
	if err != nil {
		startup.LogFatal("Failed to initialize handlers: %v", err)
	}

	router := setupRouter(h, !config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	srv := &http.Server{
		Addr:              config.Addr(),
		Handler:           wrapMiddleware(router, config),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = &http.Server{
			Addr:              config.MetricsAddr(),
			Handler:           setupMetricsRouter(h),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		return monitor.Run(gctx)
	})
	g.Go(func() error {
		return collector.Run(gctx)
	})
	g.Go(func() error {
		return listen(srv)
	})
	if metricsSrv != nil {
		g.Go(func() error {
			return listen(metricsSrv)
		})
	}
	g.Go(func() error {
		return rescanOnHangup(gctx, sched)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdown(srv, metricsSrv, warm, contextReason(ctx, gctx))
		return nil
	})

	startup.LogServerStarted(startup.ServerConfig{
		Addr:            config.Addr(),
		MetricsAddr:     config.MetricsAddr(),
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	if err := g.Wait(); err != nil {
		startup.LogFatal("Server error: %v", err)
	}
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return nil
}

func contextReason(signalCtx, groupCtx context.Context) string {
	if signalCtx.Err() != nil {
		return "signal"
	}
	if err := context.Cause(groupCtx); err != nil {
		return err.Error()
	}
	return "unknown"
}

// rescanOnHangup triggers an immediate scan for every SIGHUP.
func rescanOnHangup(ctx context.Context, sched *scheduler.Scheduler) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			logging.Info("SIGHUP received, rescanning")
			sched.Trigger()
		}
	}
}

// wrapMiddleware installs request metrics on the router, where the matched
// route is known, and wraps it with access logging and compression.
func wrapMiddleware(router *mux.Router, config *startup.Config) http.Handler {
	router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks

	handler := middleware.Logger(loggingConfig)(router)
	return middleware.Compression(middleware.DefaultCompressionConfig())(handler)
}

// setupRouter registers the application routes. withMetrics also mounts
// /metrics, used when no separate metrics listener runs.
func setupRouter(h *handlers.Handlers, withMetrics bool) *mux.Router {
	r := mux.NewRouter()

	// Operations
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	if withMetrics {
		r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	}

	// Listings
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/c/{name}/", h.Person).Methods("GET")
	r.HandleFunc("/y/{year}/", h.Year).Methods("GET")
	r.HandleFunc("/s/", h.Search).Methods("GET")
	r.HandleFunc("/s/suggest", h.Suggest).Methods("GET")
	r.HandleFunc("/opensearchdescription.xml", h.OpenSearch).Methods("GET")

	// Files
	r.HandleFunc("/t/{filename}", h.Thumbnail).Methods("GET")
	r.PathPrefix("/gifs/").Handler(h.GIFs())
	r.PathPrefix("/static/").Handler(h.Static())

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	return r
}

func setupMetricsRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	return r
}

// dbStatsAdapter adapts the database to metrics.StatsProvider.
type dbStatsAdapter struct {
	db interface{ GetStats() database.Stats }
}

func (a *dbStatsAdapter) GetStats() metrics.Stats {
	s := a.db.GetStats()
	return metrics.Stats{
		TotalGIFs:   s.TotalGIFs,
		TotalPeople: s.TotalPeople,
		TotalYears:  s.TotalYears,
		TotalBytes:  s.TotalBytes,
	}
}

// warmer runs poster warm-ups in the background, one at a time.
type warmer struct {
	ctx    context.Context
	thumbs *media.ThumbnailGenerator
	db     *database.Database

	mu sync.Mutex
	wg sync.WaitGroup
}

func newWarmer(ctx context.Context, thumbs *media.ThumbnailGenerator, db *database.Database) *warmer {
	return &warmer{ctx: ctx, thumbs: thumbs, db: db}
}

// start begins a warm-up unless one is already running.
func (w *warmer) start() {
	if !w.mu.TryLock() {
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.mu.Unlock()

		n, err := w.thumbs.Warm(w.ctx, w.db.All())
		if err != nil {
			logging.Warn("%v", err)
		}
		if n > 0 {
			logging.Info("Generated %d posters", n)
		}
	}()
}

func (w *warmer) wait() {
	w.wg.Wait()
}

func shutdown(srv, metricsSrv *http.Server, warm *warmer, reason string) {
	startup.LogShutdownInitiated(reason)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	warm.wait()
	startup.LogShutdownStepComplete("Poster warm-up stopped")

	startup.LogShutdownComplete()
}
