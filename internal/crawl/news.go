package crawl

import (
	"context"
	"fmt"
	"net/http"

	colly "github.com/gocolly/colly/v2"
	"github.com/rs/zerolog/log"

	"auto-intel/pipeline/internal/extract"
	"auto-intel/pipeline/internal/pipeline"
)

// NewsCrawler walks the fixed set of news listing pages and hands every
// fetched page to the extractor registered for its domain. Listing and
// detail pages go through separate collectors so link discovery never
// competes with content extraction.
type NewsCrawler struct {
	userAgent string
	registry  *extract.Registry
	pipeline  *pipeline.Pipeline
}

// NewNewsCrawler wires the news crawl against a registry and pipeline.
func NewNewsCrawler(userAgent string, reg *extract.Registry, p *pipeline.Pipeline) *NewsCrawler {
	return &NewsCrawler{userAgent: userAgent, registry: reg, pipeline: p}
}

// NewsStartURLs enumerates the pre-set listing pages for every news source.
func NewsStartURLs() []string {
	var urls []string

	// Car Magazine paginates /car-news/ over 20 pages
	for page := 1; page <= 20; page++ {
		if page == 1 {
			urls = append(urls, "https://www.carmagazine.co.uk/car-news/")
		} else {
			urls = append(urls, fmt.Sprintf("https://www.carmagazine.co.uk/car-news/?page=%d", page))
		}
	}

	// PistonHeads renders pagination client-side, so only the root is useful
	urls = append(urls, "https://www.pistonheads.com/news")

	// Auto Express splits news across two sections
	for _, base := range []string{
		"https://www.autoexpress.co.uk/car-news",
		"https://www.autoexpress.co.uk/consumer-issues",
	} {
		for page := 1; page <= 4; page++ {
			if page == 1 {
				urls = append(urls, base)
			} else {
				urls = append(urls, fmt.Sprintf("%s?page=%d", base, page))
			}
		}
	}

	return urls
}

// Run executes one full news crawl: listing pages first, then every
// discovered detail page. It blocks until both collectors drain.
func (c *NewsCrawler) Run(ctx context.Context) error {
	listing, err := newCollector(ctx, c.userAgent, c.registry.NewsDomains())
	if err != nil {
		return fmt.Errorf("failed to build listing collector: %w", err)
	}
	detail, err := newCollector(ctx, c.userAgent, c.registry.NewsDomains())
	if err != nil {
		return fmt.Errorf("failed to build detail collector: %w", err)
	}

	listing.OnHTML("html", func(e *colly.HTMLElement) {
		c.handleListing(ctx, detail, e)
	})
	detail.OnHTML("html", func(e *colly.HTMLElement) {
		c.handleDetail(ctx, e)
	})

	for _, u := range NewsStartURLs() {
		visit(listing, u)
	}

	listing.Wait()
	detail.Wait()
	return ctx.Err()
}

func (c *NewsCrawler) handleListing(ctx context.Context, detail *colly.Collector, e *colly.HTMLElement) {
	site, ok := c.registry.NewsSite(e.Request.URL.Hostname())
	if !ok {
		log.Debug().Str("host", e.Request.URL.Hostname()).Msg("No news extractor for host")
		return
	}

	drafts, links := site.Listing(e.DOM, e.Request.URL)

	for _, draft := range drafts {
		c.pipeline.ProcessArticle(ctx, draft)
	}

	for _, link := range links {
		cctx := colly.NewContext()
		cctx.Put(listingTitleKey, link.Title)
		if err := detail.Request(http.MethodGet, link.URL, nil, cctx, nil); err != nil {
			log.Debug().Err(err).Str("url", link.URL).Msg("Skipping detail fetch")
		}
	}
}

func (c *NewsCrawler) handleDetail(ctx context.Context, e *colly.HTMLElement) {
	site, ok := c.registry.NewsSite(e.Request.URL.Hostname())
	if !ok {
		return
	}

	draft, ok := site.Detail(e.DOM, e.Request.URL, e.Request.Ctx.Get(listingTitleKey))
	if !ok {
		return
	}
	c.pipeline.ProcessArticle(ctx, draft)
}
