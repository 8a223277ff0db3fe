package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"auto-intel/pipeline/internal/models"
)

// autoExpressReview reads the polaris presentational layout first and falls
// back to the specification-sheet table for rating and price. The fallback
// only fires for fields the primary layout left absent; it never overwrites
// a value already found.
type autoExpressReview struct{}

func (autoExpressReview) Source() string { return "Auto Express" }

func (s autoExpressReview) Review(sel *goquery.Selection, pageURL *url.URL) models.ReviewDraft {
	draft := models.ReviewDraft{
		Title:    firstText(sel, "h1.polaris__heading.-content-title", "h1.polaris__heading--content-title"),
		Link:     pageURL.String(),
		Author:   joinedAuthors(sel, "span.polaris__post-meta--author-name a", ""),
		DateText: strings.TrimSpace(sel.Find("span.polaris__date").First().Text()),
		Source:   s.Source(),
		Verdict:  verdictAfterHeading(sel),
		Rating:   strictFloat(sel.Find("p.polaris__rating--text").First().Text()),
	}

	sel.Find("span.polaris__price--price").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if price := poundPrice(span.Text()); price != nil {
			draft.Price = price
			return false
		}
		return true
	})

	if draft.Rating == nil || draft.Price == nil {
		fillFromSpecTable(sel, &draft)
	}

	return draft
}

// verdictAfterHeading returns the first paragraph following a "verdict" or
// "our opinion" heading inside the main content grid.
func verdictAfterHeading(sel *goquery.Selection) string {
	var verdict string
	sel.Find("div.polaris__simple-grid--main h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		heading := strings.ToLower(h.Text())
		if !strings.Contains(heading, "verdict") && !strings.Contains(heading, "our opinion") {
			return true
		}
		verdict = strings.TrimSpace(h.NextAllFiltered("p").First().Text())
		return false
	})
	return verdict
}

// fillFromSpecTable scans the tabular specification sheet for rating and
// "price new" rows, filling only fields still absent.
func fillFromSpecTable(sel *goquery.Selection, draft *models.ReviewDraft) {
	sel.Find("table.tablesaw tbody tr").Each(func(_ int, row *goquery.Selection) {
		header := strings.ToLower(strings.TrimSpace(row.Find("td:nth-child(1)").First().Text()))
		value := strings.TrimSpace(row.Find("td:nth-child(2)").First().Text())
		if header == "" || value == "" {
			return
		}

		if strings.Contains(header, "rating") && draft.Rating == nil {
			draft.Rating = models.ParseRating(value)
		}
		if strings.Contains(header, "price new") && draft.Price == nil {
			draft.Price = poundPrice(value)
		}
	})
}

// carbuyerReview reads Carbuyer's layout: the verdict is the prose that
// follows an inline "Verdict" strong tag rather than a standalone heading.
type carbuyerReview struct{}

func (carbuyerReview) Source() string { return "Carbuyer" }

func (s carbuyerReview) Review(sel *goquery.Selection, pageURL *url.URL) models.ReviewDraft {
	draft := models.ReviewDraft{
		Title:    strings.TrimSpace(sel.Find("h1.polaris__heading.-content-title").First().Text()),
		Link:     pageURL.String(),
		Author:   joinedAuthors(sel, "span.polaris__post-meta--author-name a", ""),
		DateText: strings.TrimSpace(sel.Find("span.polaris__date").First().Text()),
		Source:   s.Source(),
		Verdict:  verdictAfterStrong(sel),
		Rating:   strictFloat(sel.Find("p.polaris__rating--text span").First().Text()),
	}

	sel.Find("span.polaris__price--price").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if price := poundPrice(span.Text()); price != nil {
			draft.Price = price
			return false
		}
		return true
	})

	return draft
}

// verdictAfterStrong returns the text node that immediately follows a
// <strong> tag mentioning "verdict" inside a paragraph.
func verdictAfterStrong(sel *goquery.Selection) string {
	var verdict string
	sel.Find("p strong").EachWithBreak(func(_ int, strong *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(strong.Text()), "verdict") {
			return true
		}
		for node := strong.Get(0).NextSibling; node != nil; node = node.NextSibling {
			if node.Type == html.TextNode {
				if text := strings.TrimSpace(node.Data); text != "" {
					verdict = text
					return false
				}
			}
		}
		return true
	})
	return verdict
}
