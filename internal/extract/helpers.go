package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var poundPriceExpr = regexp.MustCompile(`£([\d,]+)`)

// resolveURL resolves href against the page URL, mirroring the crawl
// framework's urljoin behavior. Malformed hrefs resolve to "".
func resolveURL(pageURL *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return pageURL.ResolveReference(ref).String()
}

// firstText returns the trimmed text of the first selector in the chain that
// matches a non-empty element.
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		text := strings.TrimSpace(sel.Find(s).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// joinedAuthors collects author-name link texts and joins them with ", ".
// Returns fallback when the page names no authors.
func joinedAuthors(sel *goquery.Selection, selector, fallback string) string {
	var names []string
	sel.Find(selector).Each(func(_ int, a *goquery.Selection) {
		if name := strings.TrimSpace(a.Text()); name != "" {
			names = append(names, name)
		}
	})
	if len(names) == 0 {
		return fallback
	}
	return strings.Join(names, ", ")
}

// strictFloat parses the whole trimmed string as a float, the contract for
// rating values read off the presentational layout.
func strictFloat(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &v
}

// poundPrice extracts the first "£12,345" style amount and returns it as an
// integer with separators stripped.
func poundPrice(text string) *int64 {
	match := poundPriceExpr.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(match[1], ",", ""), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
