// Package pipeline validates raw candidate records and persists them
// idempotently. A record either reaches storage or is dropped with a logged
// reason; neither outcome stops the surrounding crawl.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"auto-intel/pipeline/internal/database"
	"auto-intel/pipeline/internal/models"
)

const (
	insertArticleQuery = `
		INSERT INTO article_news (title, link, author, publication_date, source, content)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (link) DO NOTHING`

	insertReviewQuery = `
		INSERT INTO car_reviews (title, link, author, publication_date, source, verdict, rating, price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (link) DO NOTHING`
)

// Pipeline owns the storage connection for one crawl run. Records flow
// Candidate -> Validated -> Persisted, or terminate as Rejected.
type Pipeline struct {
	db *database.DB

	persisted  atomic.Int64
	duplicates atomic.Int64
	rejected   atomic.Int64
}

// New verifies the storage connection up front; a failure here aborts the
// whole run rather than being retried per record.
func New(db *database.DB) (*Pipeline, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("database connection is not valid: %w", err)
	}
	return &Pipeline{db: db}, nil
}

// ProcessArticle validates an article draft and upserts it keyed on link.
// Validation failures and write errors are logged drops, never errors: the
// crawl moves on to the next record.
func (p *Pipeline) ProcessArticle(ctx context.Context, draft models.ArticleDraft) {
	article, err := draft.Validate()
	if err != nil {
		p.reject("article", draft.Link, err)
		return
	}

	p.store(ctx, "article", article.Link, insertArticleQuery,
		article.Title, article.Link, article.Author,
		article.PublicationDate, article.Source, article.Content)
}

// ProcessReview validates a review draft and upserts it keyed on link.
func (p *Pipeline) ProcessReview(ctx context.Context, draft models.ReviewDraft) {
	review, err := draft.Validate()
	if err != nil {
		p.reject("review", draft.Link, err)
		return
	}

	p.store(ctx, "review", review.Link, insertReviewQuery,
		review.Title, review.Link, review.Author, review.PublicationDate,
		review.Source, review.Verdict, review.Rating, review.Price)
}

// store runs the insert-or-ignore write. A conflict on link is a no-op that
// still counts as success; the duplicate tally is kept for visibility.
func (p *Pipeline) store(ctx context.Context, kind, link, query string, args ...any) {
	res, err := p.db.ExecContext(ctx, p.db.Rebind(query), args...)
	if err != nil {
		p.rejected.Add(1)
		log.Error().
			Err(err).
			Str("kind", kind).
			Str("link", link).
			Msg("Storage write failed, dropping record")
		return
	}

	rows, err := res.RowsAffected()
	if err == nil && rows == 0 {
		p.duplicates.Add(1)
		log.Debug().
			Str("kind", kind).
			Str("link", link).
			Msg("Duplicate link, insert ignored")
		return
	}

	p.persisted.Add(1)
	log.Debug().
		Str("kind", kind).
		Str("link", link).
		Msg("Record stored")
}

func (p *Pipeline) reject(kind, link string, err error) {
	p.rejected.Add(1)

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		log.Warn().
			Str("kind", kind).
			Str("link", link).
			Strs("fields", verr.FieldNames()).
			Err(err).
			Msg("Validation failed, dropping record")
		return
	}

	log.Warn().
		Str("kind", kind).
		Str("link", link).
		Err(err).
		Msg("Dropping record")
}

// Stats returns the persisted, duplicate and rejected record counts.
func (p *Pipeline) Stats() (persisted, duplicates, rejected int64) {
	return p.persisted.Load(), p.duplicates.Load(), p.rejected.Load()
}
