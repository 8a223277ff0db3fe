package analysis

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"auto-intel/pipeline/internal/models"
)

const (
	topKeywordCount  = 20
	minKeywordLength = 3
	// minCorrelationSamples is the smallest sample size worth reporting a
	// correlation coefficient for.
	minCorrelationSamples = 3
)

var wordExpr = regexp.MustCompile(`[a-z][a-z'-]*`)

// stopwords excluded from title keyword counts.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "are": {}, "you": {}, "your": {}, "has": {}, "have": {},
	"its": {}, "but": {}, "not": {}, "all": {}, "new": {}, "car": {},
	"cars": {}, "review": {}, "2024": {}, "2025": {}, "will": {}, "can": {},
	"more": {}, "out": {}, "how": {}, "what": {}, "why": {}, "our": {},
}

// ArticleStats summarizes the news article table.
type ArticleStats struct {
	Total    int            `json:"total"`
	BySource map[string]int `json:"by_source"`
	WithDate int            `json:"with_date"`
}

// ReviewStats summarizes the car review table.
type ReviewStats struct {
	Total        int            `json:"total"`
	BySource     map[string]int `json:"by_source"`
	Rated        int            `json:"rated"`
	Priced       int            `json:"priced"`
	AvgRating    *float64       `json:"avg_rating,omitempty"`
	MedianRating *float64       `json:"median_rating,omitempty"`
	AvgPrice     *float64       `json:"avg_price,omitempty"`
	MedianPrice  *float64       `json:"median_price,omitempty"`
	MinPrice     *int64         `json:"min_price,omitempty"`
	MaxPrice     *int64         `json:"max_price,omitempty"`
	RatingCounts map[string]int `json:"rating_counts"`
}

// Correlations holds cross-field correlation coefficients.
type Correlations struct {
	// PriceRating is the Pearson coefficient between price and rating over
	// reviews carrying both fields; nil below the sample threshold.
	PriceRating *float64 `json:"price_rating,omitempty"`
	Samples     int      `json:"samples"`
}

// KeywordCount is one entry in the title keyword frequency list.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Report is a full analysis snapshot.
type Report struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	Articles     ArticleStats   `json:"articles"`
	Reviews      ReviewStats    `json:"reviews"`
	Correlations Correlations   `json:"correlations"`
	TopKeywords  []KeywordCount `json:"top_keywords"`
}

// Analyzer computes reports from loaded records.
type Analyzer struct {
	loader *Loader
}

// NewAnalyzer creates an analyzer backed by a record loader.
func NewAnalyzer(loader *Loader) *Analyzer {
	return &Analyzer{loader: loader}
}

// Run loads both record sets and computes a fresh report.
func (a *Analyzer) Run(ctx context.Context) (*Report, error) {
	articles, err := a.loader.Articles(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis load failed: %w", err)
	}
	reviews, err := a.loader.Reviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis load failed: %w", err)
	}
	return BuildReport(articles, reviews), nil
}

// BuildReport computes a report over in-memory record sets.
func BuildReport(articles []models.Article, reviews []models.CarReview) *Report {
	report := &Report{
		GeneratedAt: time.Now().UTC(),
		Articles: ArticleStats{
			Total:    len(articles),
			BySource: map[string]int{},
		},
		Reviews: ReviewStats{
			Total:        len(reviews),
			BySource:     map[string]int{},
			RatingCounts: map[string]int{},
		},
	}

	titles := make([]string, 0, len(articles)+len(reviews))

	for _, article := range articles {
		report.Articles.BySource[article.Source]++
		if article.PublicationDate != nil {
			report.Articles.WithDate++
		}
		titles = append(titles, article.Title)
	}

	var ratings, prices []float64
	var pairedPrices, pairedRatings []float64

	for _, review := range reviews {
		report.Reviews.BySource[review.Source]++
		titles = append(titles, review.Title)

		if review.Rating != nil {
			report.Reviews.Rated++
			ratings = append(ratings, *review.Rating)
			report.Reviews.RatingCounts[ratingBucket(*review.Rating)]++
		}
		if review.Price != nil {
			report.Reviews.Priced++
			prices = append(prices, float64(*review.Price))
		}
		if review.Rating != nil && review.Price != nil {
			pairedRatings = append(pairedRatings, *review.Rating)
			pairedPrices = append(pairedPrices, float64(*review.Price))
		}
	}

	report.Reviews.AvgRating = round2(mean(ratings))
	report.Reviews.MedianRating = round2(median(ratings))
	report.Reviews.AvgPrice = round2(mean(prices))
	report.Reviews.MedianPrice = round2(median(prices))
	report.Reviews.MinPrice, report.Reviews.MaxPrice = priceBounds(prices)

	report.Correlations.Samples = len(pairedPrices)
	if len(pairedPrices) >= minCorrelationSamples {
		if coeff, err := stats.Correlation(pairedPrices, pairedRatings); err == nil {
			report.Correlations.PriceRating = round2(&coeff)
		}
	}

	report.TopKeywords = topKeywords(titles, topKeywordCount)
	return report
}

func ratingBucket(rating float64) string {
	switch {
	case rating < 1:
		return "0-1"
	case rating < 2:
		return "1-2"
	case rating < 3:
		return "2-3"
	case rating < 4:
		return "3-4"
	default:
		return "4-5"
	}
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	v, err := stats.Mean(values)
	if err != nil {
		return nil
	}
	return &v
}

func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	v, err := stats.Median(values)
	if err != nil {
		return nil
	}
	return &v
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r, err := stats.Round(*v, 2)
	if err != nil {
		return v
	}
	return &r
}

func priceBounds(prices []float64) (minPrice, maxPrice *int64) {
	if len(prices) == 0 {
		return nil, nil
	}
	lo, err := stats.Min(prices)
	if err != nil {
		return nil, nil
	}
	hi, err := stats.Max(prices)
	if err != nil {
		return nil, nil
	}
	loInt, hiInt := int64(lo), int64(hi)
	return &loInt, &hiInt
}

// topKeywords counts words across titles, skipping stopwords and short
// tokens, and returns the n most frequent in descending order.
func topKeywords(titles []string, n int) []KeywordCount {
	counts := map[string]int{}
	for _, title := range titles {
		for _, word := range wordExpr.FindAllString(strings.ToLower(title), -1) {
			if len(word) < minKeywordLength {
				continue
			}
			if _, skip := stopwords[word]; skip {
				continue
			}
			counts[word]++
		}
	}

	keywords := make([]KeywordCount, 0, len(counts))
	for word, count := range counts {
		keywords = append(keywords, KeywordCount{Word: word, Count: count})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Word < keywords[j].Word
	})

	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}
