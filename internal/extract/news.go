package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"auto-intel/pipeline/internal/models"
)

// dateInProseExpr picks a "15 Jan 2024" style date out of byline prose.
var dateInProseExpr = regexp.MustCompile(`\d{1,2} [A-Za-z]{3} \d{4}`)

// carMagazine extracts complete article records straight off the listing
// cards; the site's detail pages add nothing the cards do not already carry.
type carMagazine struct{}

func (carMagazine) Source() string { return "Car Magazine UK" }

func (s carMagazine) Listing(sel *goquery.Selection, pageURL *url.URL) ([]models.ArticleDraft, []FollowLink) {
	var drafts []models.ArticleDraft

	sel.Find("article.panel").Each(func(_ int, card *goquery.Selection) {
		titleLink := card.Find("h3.title a").First()
		href, ok := titleLink.Attr("href")
		if !ok {
			return
		}

		drafts = append(drafts, models.ArticleDraft{
			Title:    strings.TrimSpace(titleLink.Text()),
			Link:     resolveURL(pageURL, href),
			Author:   strings.TrimSpace(card.Find("span.author").First().Text()),
			DateText: strings.TrimSpace(card.Find("span.date").First().Text()),
			Source:   s.Source(),
		})
	})

	return drafts, nil
}

func (carMagazine) Detail(*goquery.Selection, *url.URL, string) (models.ArticleDraft, bool) {
	return models.ArticleDraft{}, false
}

// pistonHeads lists bare article links; everything else lives on the detail
// page. The site prints no machine-readable date, so the byline paragraph
// mentioning the year is scanned for a day-month-year fragment.
type pistonHeads struct{}

func (pistonHeads) Source() string { return "PistonHeads" }

func (pistonHeads) Listing(sel *goquery.Selection, pageURL *url.URL) ([]models.ArticleDraft, []FollowLink) {
	var links []FollowLink

	sel.Find("a[data-gtm-event-action='click-article']").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		if resolved := resolveURL(pageURL, href); resolved != "" {
			links = append(links, FollowLink{URL: resolved})
		}
	})

	return nil, links
}

func (s pistonHeads) Detail(sel *goquery.Selection, pageURL *url.URL, _ string) (models.ArticleDraft, bool) {
	var dateText string
	sel.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := p.Text()
		if !strings.Contains(text, "202") {
			return true
		}
		if match := dateInProseExpr.FindString(text); match != "" {
			dateText = match
			return false
		}
		return true
	})

	author := strings.TrimSpace(sel.Find("a[data-gtm-event-action='author name click']").First().Text())
	if author == "" {
		author = "PistonHeads Staff"
	}

	return models.ArticleDraft{
		Title:    strings.TrimSpace(sel.Find("h1").First().Text()),
		Link:     pageURL.String(),
		Author:   author,
		DateText: dateText,
		Source:   s.Source(),
	}, true
}

// autoExpressNews follows listing-card links, carrying the card title along:
// the full date and byline are only reliable on the article page itself.
type autoExpressNews struct{}

func (autoExpressNews) Source() string { return "Auto Express" }

func (autoExpressNews) Listing(sel *goquery.Selection, pageURL *url.URL) ([]models.ArticleDraft, []FollowLink) {
	var links []FollowLink

	sel.Find("a.polaris__link.polaris__article-card--link").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		resolved := resolveURL(pageURL, href)
		if resolved == "" {
			return
		}
		links = append(links, FollowLink{
			URL:   resolved,
			Title: strings.TrimSpace(a.Text()),
		})
	})

	return nil, links
}

func (s autoExpressNews) Detail(sel *goquery.Selection, pageURL *url.URL, listingTitle string) (models.ArticleDraft, bool) {
	return models.ArticleDraft{
		Title:    strings.TrimSpace(listingTitle),
		Link:     pageURL.String(),
		Author:   joinedAuthors(sel, "span.polaris__post-meta--author-name a", "AutoExpress Staff"),
		DateText: strings.TrimSpace(sel.Find("span.polaris__date").First().Text()),
		Source:   s.Source(),
	}, true
}
