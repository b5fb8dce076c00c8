package metrics

import (
	"context"
	"time"

	"gif-viewer/internal/logging"
)

// StatsProvider is anything that can summarise the GIF index.
type StatsProvider interface {
	GetStats() Stats
}

// Stats mirrors the counts the index gauges export.
type Stats struct {
	TotalGIFs   int
	TotalPeople int
	TotalYears  int
	TotalBytes  int64
}

// SetIndexStats publishes s on the index gauges.
func SetIndexStats(s Stats) {
	IndexItemsTotal.Set(float64(s.TotalGIFs))
	IndexPeopleTotal.Set(float64(s.TotalPeople))
	IndexYearsTotal.Set(float64(s.TotalYears))
	IndexBytesTotal.Set(float64(s.TotalBytes))
}

// Collector keeps the index gauges in step with the index. Scans push an
// update through Collect; Run adds a periodic refresh on top.
type Collector struct {
	source   StatsProvider
	interval time.Duration
}

// NewCollector returns a collector reading from source every interval.
func NewCollector(source StatsProvider, interval time.Duration) *Collector {
	return &Collector{source: source, interval: interval}
}

// Collect refreshes the index gauges once. A nil source is a no-op.
func (c *Collector) Collect() {
	if c.source == nil {
		return
	}
	s := c.source.GetStats()
	SetIndexStats(s)
	logging.Debug("Index gauges updated: gifs=%d people=%d years=%d bytes=%d",
		s.TotalGIFs, s.TotalPeople, s.TotalYears, s.TotalBytes)
}

// Run collects immediately and then on every tick until ctx is done. It
// always returns nil so it can sit in an errgroup beside the servers.
func (c *Collector) Run(ctx context.Context) error {
	c.Collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Collect()
		case <-ctx.Done():
			logging.Debug("Index gauge collector stopped")
			return nil
		}
	}
}
