// Package analysis computes summary statistics and correlations over the
// persisted records. It reads storage directly and independently of the
// crawl pipeline, on its own schedule.
package analysis

import (
	"context"
	"fmt"

	"auto-intel/pipeline/internal/database"
	"auto-intel/pipeline/internal/models"
)

// Loader reads full record sets for analysis.
type Loader struct {
	db *database.DB
}

// NewLoader creates a loader over an open database connection.
func NewLoader(db *database.DB) *Loader {
	return &Loader{db: db}
}

// Articles returns every persisted news article.
func (l *Loader) Articles(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	err := l.db.SelectContext(ctx, &articles, `
		SELECT title, link, author, publication_date, source, content, created_at
		FROM article_news
		ORDER BY created_at ASC, link ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load articles: %w", err)
	}
	return articles, nil
}

// Reviews returns every persisted car review.
func (l *Loader) Reviews(ctx context.Context) ([]models.CarReview, error) {
	var reviews []models.CarReview
	err := l.db.SelectContext(ctx, &reviews, `
		SELECT title, link, author, publication_date, source, verdict, rating, price, created_at
		FROM car_reviews
		ORDER BY created_at ASC, link ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	return reviews, nil
}
