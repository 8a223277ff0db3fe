package models

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Date text arrives as "15 Jan 2024" (sometimes lower-cased by the site) or
// as a strict ISO calendar date. Anything else resolves to absent.
const (
	primaryDateFormat = "2 Jan 2006"
	isoDateFormat     = "2006-01-02"
)

var (
	nonDigitExpr = regexp.MustCompile(`\D`)
	numberExpr   = regexp.MustCompile(`\d+\.\d+|\d+`)
)

// ParseDate parses free-form date text against the primary day-month-year
// format, falling back to ISO. A miss is not an error: the result is nil.
func ParseDate(text string) *time.Time {
	text = titleCase(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	if t, err := time.Parse(primaryDateFormat, text); err == nil {
		return &t
	}
	if t, err := time.Parse(isoDateFormat, text); err == nil {
		return &t
	}
	return nil
}

// ParsePrice derives an integer price from currency-formatted text by
// stripping every non-digit character. An empty result yields nil, never zero.
func ParsePrice(text string) *int64 {
	digits := nonDigitExpr.ReplaceAllString(text, "")
	if digits == "" {
		return nil
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseRating extracts the first decimal-or-integer numeral from free text,
// e.g. "4.2 out of 5" -> 4.2. No match yields nil.
func ParseRating(text string) *float64 {
	match := numberExpr.FindString(text)
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &v
}

// validLink reports whether text parses as an absolute http(s) URL.
func validLink(text string) bool {
	u, err := url.Parse(text)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// titleCase capitalizes the first letter of each word so month abbreviations
// like "jan" match the primary date format.
func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		runes := []rune(strings.ToLower(f))
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// optional converts a trimmed string to a nullable field value.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
