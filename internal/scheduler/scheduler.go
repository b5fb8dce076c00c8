package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gif-viewer/internal/logging"
	"gif-viewer/internal/reporting"

	"github.com/sourcegraph/conc/panics"
)

// Scanner is the work the scheduler repeats.
type Scanner interface {
	Scan() (int, error)
}

// Result describes one scan attempt.
type Result struct {
	Added    int
	Err      error
	Duration time.Duration
	Started  time.Time
}

// OK reports whether the attempt finished without error.
func (r Result) OK() bool {
	return r.Err == nil
}

// Scheduler runs a Scanner every interval.
type Scheduler struct {
	scanner  Scanner
	every    time.Duration
	reporter reporting.Reporter
	trigger  chan struct{}

	mu        sync.Mutex
	hooks     []func(Result)
	last      Result
	runs      int
	scanning  bool
	startTime time.Time
}

// New creates a Scheduler. A nil reporter discards reports.
func New(scanner Scanner, every time.Duration, reporter reporting.Reporter) *Scheduler {
	if reporter == nil {
		reporter = reporting.Discard
	}
	return &Scheduler{
		scanner:   scanner,
		every:     every,
		reporter:  reporter,
		trigger:   make(chan struct{}, 1),
		startTime: time.Now(),
	}
}

// OnResult registers fn to be called after every attempt, on the
// scheduler's goroutine.
func (s *Scheduler) OnResult(fn func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Last returns the most recent attempt. It is the zero Result before the
// first tick.
func (s *Scheduler) Last() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Trigger asks the loop to scan now. Requests made while one is already
// pending are merged.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is done, scanning once per interval. The first scan
// happens one interval after Run is called.
func (s *Scheduler) Run(ctx context.Context) error {
	logging.Info("Scheduling scans every %v", s.every)

	timer := time.NewTimer(s.every)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info("Scan scheduler stopped")
			return nil
		case <-timer.C:
		case <-s.trigger:
			logging.Info("Scan requested")
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		s.Tick(ctx)

		logging.Debug("Next scan in %v", s.every)
		timer.Reset(s.every)
	}
}

// Tick runs one scan attempt, reports a failure and notifies the hooks.
func (s *Scheduler) Tick(ctx context.Context) Result {
	res := Result{Started: time.Now()}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	s.mu.Lock()
	s.scanning = true
	s.mu.Unlock()

	var pc panics.Catcher
	pc.Try(func() {
		res.Added, res.Err = s.scanner.Scan()
	})
	if r := pc.Recovered(); r != nil {
		res.Err = fmt.Errorf("scan panicked: %w", r.AsError())
	}
	res.Duration = time.Since(res.Started)

	if res.Err != nil {
		id := s.reporter.Report(res.Err, map[string]string{reporting.SourceTag: "scan"})
		logging.Error("Scan failed (event %s): %v", id, res.Err)
	} else {
		logging.Debug("Scan added %d in %v", res.Added, res.Duration)
	}

	s.mu.Lock()
	s.scanning = false
	s.last = res
	s.runs++
	hooks := append([]func(Result){}, s.hooks...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(res)
	}
	return res
}

// HealthStatus summarises the scheduler for the health endpoint.
type HealthStatus struct {
	Scanning  bool      `json:"scanning"`
	Runs      int       `json:"runs"`
	StartTime time.Time `json:"startTime"`
	Uptime    string    `json:"uptime"`
	LastScan  time.Time `json:"lastScan,omitempty"`
	LastAdded int       `json:"lastAdded"`
	LastError string    `json:"lastError,omitempty"`
}

// GetHealthStatus returns the scheduler's current state.
func (s *Scheduler) GetHealthStatus() HealthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := HealthStatus{
		Scanning:  s.scanning,
		Runs:      s.runs,
		StartTime: s.startTime,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		LastScan:  s.last.Started,
		LastAdded: s.last.Added,
	}
	if s.last.Err != nil {
		status.LastError = s.last.Err.Error()
	}
	return status
}
