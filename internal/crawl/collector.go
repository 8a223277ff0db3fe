// Package crawl drives which pages get fetched and routes each fetched page
// to the matching extractor. Fetch scheduling, dedup of visited URLs and
// politeness delays are delegated to colly; the handlers themselves run
// synchronously per page.
package crawl

import (
	"context"
	"fmt"
	"time"

	colly "github.com/gocolly/colly/v2"
	"github.com/rs/zerolog/log"
)

const (
	defaultDelay          = 1 * time.Second
	defaultParallelism    = 2
	defaultRequestTimeout = 30 * time.Second
	defaultMaxDepth       = 2
)

// listingTitleKey carries a listing card's headline to the detail-page
// handler via the request context.
const listingTitleKey = "listing_title"

// newCollector builds an async collector restricted to the given domains.
func newCollector(ctx context.Context, userAgent string, domains []string) (*colly.Collector, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(userAgent),
		colly.Async(true),
		colly.MaxDepth(defaultMaxDepth),
		colly.AllowedDomains(withWWW(domains)...),
	)
	c.SetRequestTimeout(defaultRequestTimeout)

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       defaultDelay,
		RandomDelay: defaultDelay / 2,
		Parallelism: defaultParallelism,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set rate limit: %w", err)
	}

	c.OnError(func(r *colly.Response, visitErr error) {
		log.Warn().
			Err(visitErr).
			Str("url", r.Request.URL.String()).
			Int("status", r.StatusCode).
			Msg("Fetch failed")
	})

	return c, nil
}

// withWWW returns each domain in bare and www-prefixed form, since the sites
// canonicalize inconsistently.
func withWWW(domains []string) []string {
	out := make([]string, 0, len(domains)*2)
	for _, d := range domains {
		out = append(out, d, "www."+d)
	}
	return out
}

// visit queues a URL and logs the queueing errors colly reports for
// already-visited or filtered URLs at debug only.
func visit(c *colly.Collector, url string) {
	if err := c.Visit(url); err != nil {
		log.Debug().Err(err).Str("url", url).Msg("Skipping visit")
	}
}
