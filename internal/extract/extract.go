// Package extract holds the per-site scraping rules that turn a fetched
// page's parsed content into raw candidate records. Extractors are pure:
// they read the page selection and resolved URL and share no state, so new
// sites plug into the registry without touching dispatch logic.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"auto-intel/pipeline/internal/models"
)

// FollowLink is a detail-page link discovered on a listing page. Title
// carries the listing card's headline for sites whose detail markup does not
// expose it reliably.
type FollowLink struct {
	URL   string
	Title string
}

// NewsSite extracts article drafts for one source site's markup conventions.
type NewsSite interface {
	Source() string
	// Listing scans a listing page, returning drafts extracted in place
	// and/or detail links to follow.
	Listing(sel *goquery.Selection, pageURL *url.URL) ([]models.ArticleDraft, []FollowLink)
	// Detail extracts a draft from a detail page. ok is false for sites that
	// keep complete records on their listing pages.
	Detail(sel *goquery.Selection, pageURL *url.URL, listingTitle string) (draft models.ArticleDraft, ok bool)
}

// ReviewSite extracts a review draft from one site's detail pages.
type ReviewSite interface {
	Source() string
	Review(sel *goquery.Selection, pageURL *url.URL) models.ReviewDraft
}

// Registry maps page domains to their extractors. Routing goes by the
// fetched page's resolved host, not by which controller issued the request.
type Registry struct {
	news    map[string]NewsSite
	reviews map[string]ReviewSite
}

// NewRegistry returns a registry with every supported site wired in.
func NewRegistry() *Registry {
	return &Registry{
		news: map[string]NewsSite{
			"carmagazine.co.uk": carMagazine{},
			"pistonheads.com":   pistonHeads{},
			"autoexpress.co.uk": autoExpressNews{},
		},
		reviews: map[string]ReviewSite{
			"autoexpress.co.uk": autoExpressReview{},
			"carbuyer.co.uk":    carbuyerReview{},
		},
	}
}

// NewsSite resolves the news extractor for a page host.
func (r *Registry) NewsSite(host string) (NewsSite, bool) {
	for domain, site := range r.news {
		if hostMatches(host, domain) {
			return site, true
		}
	}
	return nil, false
}

// ReviewSite resolves the review extractor for a page host.
func (r *Registry) ReviewSite(host string) (ReviewSite, bool) {
	for domain, site := range r.reviews {
		if hostMatches(host, domain) {
			return site, true
		}
	}
	return nil, false
}

// NewsDomains returns every domain with a registered news extractor.
func (r *Registry) NewsDomains() []string {
	domains := make([]string, 0, len(r.news))
	for d := range r.news {
		domains = append(domains, d)
	}
	return domains
}

// ReviewDomains returns every domain with a registered review extractor.
func (r *Registry) ReviewDomains() []string {
	domains := make([]string, 0, len(r.reviews))
	for d := range r.reviews {
		domains = append(domains, d)
	}
	return domains
}

func hostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
