// Package reporting forwards unexpected errors to an error sink. The
// default sink writes each report as a structured log event tagged with a
// unique event ID and counts it in Prometheus.
package reporting

import (
	"sort"
	"sync"
	"time"

	"gif-viewer/internal/logging"
	"gif-viewer/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Reporter captures an error with optional tags and returns the event ID
// assigned to it. An empty ID means the report was dropped.
type Reporter interface {
	Report(err error, tags map[string]string) string
}

// SourceTag is the tag naming the component that raised the error.
const SourceTag = "source"

// LogReporter is a Reporter backed by zerolog.
type LogReporter struct {
	limiter *rate.Limiter

	mu     sync.Mutex
	logger zerolog.Logger
	newID  func() string
}

// Option configures a LogReporter.
type Option func(*LogReporter)

// WithLogger sets the logger reports are written to.
func WithLogger(l zerolog.Logger) Option {
	return func(r *LogReporter) {
		r.logger = l
	}
}

// WithIDFunc replaces the event ID generator.
func WithIDFunc(fn func() string) Option {
	return func(r *LogReporter) {
		r.newID = fn
	}
}

// NewLogReporter creates a reporter that forwards at most perMinute reports
// per minute, with bursts of the same size. perMinute <= 0 disables limiting.
func NewLogReporter(perMinute int, opts ...Option) *LogReporter {
	limit := rate.Inf
	burst := 0
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
		burst = perMinute
	}

	r := &LogReporter{
		limiter: rate.NewLimiter(limit, burst),
		logger:  logging.Logger(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report logs err with its tags. A nil error is ignored.
func (r *LogReporter) Report(err error, tags map[string]string) string {
	if err == nil {
		return ""
	}

	source := tags[SourceTag]
	if source == "" {
		source = "unknown"
	}

	if !r.limiter.Allow() {
		metrics.ErrorReportsDropped.Inc()
		return ""
	}
	metrics.ErrorReportsTotal.WithLabelValues(source).Inc()

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	ev := r.logger.Error().Err(err).Str("event_id", id)

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev = ev.Str(k, tags[k])
	}
	ev.Msg("error captured")

	return id
}

// Func adapts a plain function to the Reporter interface.
type Func func(err error, tags map[string]string) string

// Report calls f.
func (f Func) Report(err error, tags map[string]string) string {
	return f(err, tags)
}

// Discard drops every report.
var Discard Reporter = Func(func(error, map[string]string) string { return "" })
