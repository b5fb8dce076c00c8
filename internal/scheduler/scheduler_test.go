package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gif-viewer/internal/reporting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanFunc func() (int, error)

func (f scanFunc) Scan() (int, error) { return f() }

type recorder struct {
	mu      sync.Mutex
	reports []error
	tags    []map[string]string
}

func (r *recorder) Report(err error, tags map[string]string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, err)
	r.tags = append(r.tags, tags)
	return "evt"
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

func TestTickSuccess(t *testing.T) {
	rec := &recorder{}
	s := New(scanFunc(func() (int, error) { return 3, nil }), time.Hour, rec)

	res := s.Tick(context.Background())
	assert.True(t, res.OK())
	assert.Equal(t, 3, res.Added)
	assert.False(t, res.Started.IsZero())
	assert.Zero(t, rec.count())
	assert.Equal(t, res, s.Last())
}

func TestTickFailureIsReportedAndNextTickScans(t *testing.T) {
	rec := &recorder{}
	calls := 0
	s := New(scanFunc(func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("listing failed")
		}
		return 1, nil
	}), time.Hour, rec)

	first := s.Tick(context.Background())
	require.Error(t, first.Err)
	require.Equal(t, 1, rec.count())
	assert.Equal(t, "scan", rec.tags[0][reporting.SourceTag])
	assert.Equal(t, "listing failed", s.GetHealthStatus().LastError)

	second := s.Tick(context.Background())
	assert.NoError(t, second.Err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, rec.count())
	assert.Empty(t, s.GetHealthStatus().LastError)
	assert.Equal(t, 2, s.GetHealthStatus().Runs)
}

func TestTickRecoversPanic(t *testing.T) {
	rec := &recorder{}
	s := New(scanFunc(func() (int, error) { panic("boom") }), time.Hour, rec)

	res := s.Tick(context.Background())
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "boom")
	assert.Equal(t, 1, rec.count())
	assert.False(t, s.GetHealthStatus().Scanning)
}

func TestTickCancelledContext(t *testing.T) {
	var called atomic.Bool
	s := New(scanFunc(func() (int, error) {
		called.Store(true)
		return 0, nil
	}), time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := s.Tick(ctx)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, called.Load())
}

func TestOnResultHooks(t *testing.T) {
	s := New(scanFunc(func() (int, error) { return 2, nil }), time.Hour, nil)

	var got []Result
	s.OnResult(func(r Result) { got = append(got, r) })
	s.OnResult(func(r Result) { got = append(got, r) })

	s.Tick(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Added)
}

func TestRunKeepsTickingAfterFailures(t *testing.T) {
	rec := &recorder{}
	var calls atomic.Int32
	s := New(scanFunc(func() (int, error) {
		n := calls.Add(1)
		switch n {
		case 1:
			return 0, errors.New("first fails")
		case 2:
			panic("second panics")
		}
		return 0, nil
	}), 5*time.Millisecond, rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 4 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 2, rec.count())
}

func TestRunDoesNotOverlapScans(t *testing.T) {
	var running, overlaps, calls atomic.Int32
	s := New(scanFunc(func() (int, error) {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		calls.Add(1)
		return 0, nil
	}), time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	<-done
	assert.Zero(t, overlaps.Load())
}

func TestRunFirstScanWaitsForInterval(t *testing.T) {
	var calls atomic.Int32
	s := New(scanFunc(func() (int, error) {
		calls.Add(1)
		return 0, nil
	}), time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Run(ctx))
	assert.Zero(t, calls.Load())
}

func TestTriggerScansImmediately(t *testing.T) {
	var calls atomic.Int32
	s := New(scanFunc(func() (int, error) {
		calls.Add(1)
		return 0, nil
	}), time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	s.Trigger()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, time.Millisecond)
	cancel()
	<-done
}
