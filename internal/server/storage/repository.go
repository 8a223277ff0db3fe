package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auto-intel/pipeline/internal/database"
	"auto-intel/pipeline/internal/models"
)

// RecordRepository defines read operations over the persisted record tables.
type RecordRepository interface {
	FetchArticles(ctx context.Context, limit int, since *time.Time, cursorTime *time.Time, cursorLink *string) ([]models.Article, error)
	FetchReviews(ctx context.Context, limit int, since *time.Time, cursorTime *time.Time, cursorLink *string) ([]models.CarReview, error)
}

// sqlxRepository implements RecordRepository using sqlx.
type sqlxRepository struct {
	db *database.DB
}

// NewRepository creates a new repository instance.
func NewRepository(db *database.DB) RecordRepository {
	return &sqlxRepository{db: db}
}

const (
	articleColumns = `title, link, author, publication_date, source, content, created_at`
	reviewColumns  = `title, link, author, publication_date, source, verdict, rating, price, created_at`

	// Consistent ordering is what makes cursor pagination work: strictly
	// increasing (created_at, link) pairs.
	orderBy = ` ORDER BY created_at ASC, link ASC LIMIT ?`
)

// FetchArticles retrieves articles created after a point in time or cursor.
func (r *sqlxRepository) FetchArticles(ctx context.Context, limit int, since *time.Time, cursorTime *time.Time, cursorLink *string) ([]models.Article, error) {
	query, args, err := buildQuery("article_news", articleColumns, limit, since, cursorTime, cursorLink)
	if err != nil {
		return nil, err
	}

	var articles []models.Article
	if err := r.db.SelectContext(ctx, &articles, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Article{}, nil
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return articles, nil
}

// FetchReviews retrieves reviews created after a point in time or cursor.
func (r *sqlxRepository) FetchReviews(ctx context.Context, limit int, since *time.Time, cursorTime *time.Time, cursorLink *string) ([]models.CarReview, error) {
	query, args, err := buildQuery("car_reviews", reviewColumns, limit, since, cursorTime, cursorLink)
	if err != nil {
		return nil, err
	}

	var reviews []models.CarReview
	if err := r.db.SelectContext(ctx, &reviews, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.CarReview{}, nil
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return reviews, nil
}

func buildQuery(table, columns string, limit int, since *time.Time, cursorTime *time.Time, cursorLink *string) (string, []any, error) {
	base := fmt.Sprintf("SELECT %s FROM %s ", columns, table)

	switch {
	case cursorTime != nil && cursorLink != nil:
		query := base + `WHERE (created_at > ?) OR (created_at = ? AND link > ?)` + orderBy
		return query, []any{cursorTime.UTC(), cursorTime.UTC(), *cursorLink, limit}, nil
	case since != nil:
		query := base + `WHERE created_at > ?` + orderBy
		return query, []any{since.UTC(), limit}, nil
	default:
		// Handlers validate this, but guard anyway.
		return "", nil, fmt.Errorf("either 'since' or cursor parameters must be provided")
	}
}
