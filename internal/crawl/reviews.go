package crawl

import (
	"context"
	"fmt"
	"strings"

	colly "github.com/gocolly/colly/v2"
	"github.com/rs/zerolog/log"

	"auto-intel/pipeline/internal/extract"
	"auto-intel/pipeline/internal/pipeline"
)

// Both review sites run the same publishing platform, so listing cards share
// one selector; only the detail-page extraction differs per domain.
const reviewCardSelector = "div.polaris__article-card > a.polaris__link"

// ReviewCrawler walks paginated review indexes and follows every card link
// to a detail page, routed to the extractor for the page's domain.
type ReviewCrawler struct {
	userAgent string
	registry  *extract.Registry
	pipeline  *pipeline.Pipeline
}

// NewReviewCrawler wires the review crawl against a registry and pipeline.
func NewReviewCrawler(userAgent string, reg *extract.Registry, p *pipeline.Pipeline) *ReviewCrawler {
	return &ReviewCrawler{userAgent: userAgent, registry: reg, pipeline: p}
}

// ReviewStartURLs enumerates the pre-set review listing pages per site.
func ReviewStartURLs() []string {
	var urls []string
	for page := 1; page <= 30; page++ {
		urls = append(urls, fmt.Sprintf("https://www.autoexpress.co.uk/car-reviews?page=%d", page))
	}
	for page := 1; page <= 30; page++ {
		urls = append(urls, fmt.Sprintf("https://www.carbuyer.co.uk/reviews?page=%d", page))
	}
	return urls
}

// Run executes one full review crawl, blocking until both collectors drain.
func (c *ReviewCrawler) Run(ctx context.Context) error {
	listing, err := newCollector(ctx, c.userAgent, c.registry.ReviewDomains())
	if err != nil {
		return fmt.Errorf("failed to build listing collector: %w", err)
	}
	detail, err := newCollector(ctx, c.userAgent, c.registry.ReviewDomains())
	if err != nil {
		return fmt.Errorf("failed to build detail collector: %w", err)
	}

	listing.OnHTML(reviewCardSelector, func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if href == "" || !(strings.HasPrefix(href, "http") || strings.HasPrefix(href, "/")) {
			log.Info().Str("href", href).Msg("Skipping invalid review link")
			return
		}
		if err := detail.Visit(e.Request.AbsoluteURL(href)); err != nil {
			log.Debug().Err(err).Str("url", href).Msg("Skipping detail fetch")
		}
	})

	detail.OnHTML("html", func(e *colly.HTMLElement) {
		site, ok := c.registry.ReviewSite(e.Request.URL.Hostname())
		if !ok {
			log.Debug().Str("host", e.Request.URL.Hostname()).Msg("No review extractor for host")
			return
		}
		c.pipeline.ProcessReview(ctx, site.Review(e.DOM, e.Request.URL))
	})

	for _, u := range ReviewStartURLs() {
		visit(listing, u)
	}

	listing.Wait()
	detail.Wait()
	return ctx.Err()
}
