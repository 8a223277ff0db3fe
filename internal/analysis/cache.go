package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache holds the last computed report and recomputes it when stale. It is
// constructed explicitly and passed to its consumers; refresh happens either
// lazily on read past the TTL or eagerly via Refresh.
type Cache struct {
	mu       sync.RWMutex
	analyzer *Analyzer
	ttl      time.Duration
	report   *Report
	loadedAt time.Time
}

// NewCache creates a report cache with the given staleness window.
func NewCache(analyzer *Analyzer, ttl time.Duration) *Cache {
	return &Cache{analyzer: analyzer, ttl: ttl}
}

// Report returns the cached report, recomputing it first when the cache is
// empty or older than the TTL.
func (c *Cache) Report(ctx context.Context) (*Report, error) {
	c.mu.RLock()
	if c.report != nil && time.Since(c.loadedAt) < c.ttl {
		report := c.report
		c.mu.RUnlock()
		return report, nil
	}
	c.mu.RUnlock()

	return c.Refresh(ctx)
}

// Refresh recomputes the report unconditionally and stores it.
func (c *Cache) Refresh(ctx context.Context) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	report, err := c.analyzer.Run(ctx)
	if err != nil {
		return nil, err
	}

	c.report = report
	c.loadedAt = time.Now()

	log.Info().
		Dur("duration", time.Since(start)).
		Int("articles", report.Articles.Total).
		Int("reviews", report.Reviews.Total).
		Msg("Analysis report refreshed")

	return report, nil
}
