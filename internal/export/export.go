// Package export dumps persisted record tables to CSV, the snapshot format
// downstream analysis notebooks consume.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"auto-intel/pipeline/internal/analysis"
	"auto-intel/pipeline/internal/database"
)

const dateLayout = "2006-01-02"

// WriteFunc is the shape shared by the table export writers.
type WriteFunc func(ctx context.Context, db *database.DB, w io.Writer) (int, error)

// WriteArticles streams the article_news table to w as CSV and returns the
// number of data rows written.
func WriteArticles(ctx context.Context, db *database.DB, w io.Writer) (int, error) {
	articles, err := analysis.NewLoader(db).Articles(ctx)
	if err != nil {
		return 0, err
	}

	csvWriter := csv.NewWriter(w)
	header := []string{"title", "link", "author", "publication_date", "source", "content"}
	if err := csvWriter.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, a := range articles {
		record := []string{
			a.Title,
			a.Link,
			stringValue(a.Author),
			dateValue(a.PublicationDate),
			a.Source,
			stringValue(a.Content),
		}
		if err := csvWriter.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV data: %w", err)
	}
	return len(articles), nil
}

// WriteReviews streams the car_reviews table to w as CSV and returns the
// number of data rows written.
func WriteReviews(ctx context.Context, db *database.DB, w io.Writer) (int, error) {
	reviews, err := analysis.NewLoader(db).Reviews(ctx)
	if err != nil {
		return 0, err
	}

	csvWriter := csv.NewWriter(w)
	header := []string{"title", "link", "author", "publication_date", "source", "verdict", "rating", "price"}
	if err := csvWriter.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range reviews {
		record := []string{
			r.Title,
			r.Link,
			stringValue(r.Author),
			dateValue(r.PublicationDate),
			r.Source,
			stringValue(r.Verdict),
			floatValue(r.Rating),
			intValue(r.Price),
		}
		if err := csvWriter.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV data: %w", err)
	}
	return len(reviews), nil
}

// ExportAll writes timestamped snapshots of both tables into dir, creating
// it when missing.
func ExportAll(ctx context.Context, db *database.DB, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	stamp := time.Now().Format("200601021504")

	articlePath := filepath.Join(dir, fmt.Sprintf("article_news_%s.csv", stamp))
	count, err := exportFile(ctx, db, articlePath, WriteArticles)
	if err != nil {
		return fmt.Errorf("failed to export articles: %w", err)
	}
	log.Info().Int("rows", count).Str("path", articlePath).Msg("Exported articles")

	reviewPath := filepath.Join(dir, fmt.Sprintf("car_reviews_%s.csv", stamp))
	count, err = exportFile(ctx, db, reviewPath, WriteReviews)
	if err != nil {
		return fmt.Errorf("failed to export reviews: %w", err)
	}
	log.Info().Int("rows", count).Str("path", reviewPath).Msg("Exported reviews")

	return nil
}

func exportFile(ctx context.Context, db *database.DB, path string, write func(context.Context, *database.DB, io.Writer) (int, error)) (int, error) {
	outFile, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	count, err := write(ctx, db, outFile)
	if closeErr := outFile.Close(); err == nil {
		err = closeErr
	}
	return count, err
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func floatValue(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func intValue(i *int64) string {
	if i == nil {
		return ""
	}
	return strconv.FormatInt(*i, 10)
}
