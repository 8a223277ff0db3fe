package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto-intel/pipeline/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewDB(database.NewSQLiteConfig(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func seedRecords(t *testing.T, db *database.DB) {
	t.Helper()

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := db.Exec(
		"INSERT INTO article_news (title, link, author, publication_date, source) VALUES (?, ?, ?, ?, ?)",
		"EV story", "https://example.com/news/ev", "Jane Roe", date, "Car Magazine UK")
	require.NoError(t, err)

	_, err = db.Exec(
		"INSERT INTO car_reviews (title, link, source, verdict, rating, price) VALUES (?, ?, ?, ?, ?, ?)",
		"SUV review", "https://example.com/reviews/suv", "Auto Express", "Roomy and refined.", 4.2, 45999)
	require.NoError(t, err)
}

func TestWriteArticles(t *testing.T) {
	db := newTestDB(t)
	seedRecords(t, db)

	var buf bytes.Buffer
	count, err := WriteArticles(context.Background(), db, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"title", "link", "author", "publication_date", "source", "content"}, records[0])
	assert.Equal(t, []string{"EV story", "https://example.com/news/ev", "Jane Roe", "2024-01-15", "Car Magazine UK", ""}, records[1])
}

func TestWriteReviews(t *testing.T) {
	db := newTestDB(t)
	seedRecords(t, db)

	var buf bytes.Buffer
	count, err := WriteReviews(context.Background(), db, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"title", "link", "author", "publication_date", "source", "verdict", "rating", "price"}, records[0])
	assert.Equal(t, "SUV review", records[1][0])
	assert.Equal(t, "", records[1][2]) // no author
	assert.Equal(t, "Roomy and refined.", records[1][5])
	assert.Equal(t, "4.2", records[1][6])
	assert.Equal(t, "45999", records[1][7])
}

func TestWriteArticlesEmptyTable(t *testing.T) {
	db := newTestDB(t)

	var buf bytes.Buffer
	count, err := WriteArticles(context.Background(), db, &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestExportAll(t *testing.T) {
	db := newTestDB(t)
	seedRecords(t, db)

	dir := t.TempDir()
	require.NoError(t, ExportAll(context.Background(), db, dir))

	articleFiles, err := filepath.Glob(filepath.Join(dir, "article_news_*.csv"))
	require.NoError(t, err)
	assert.Len(t, articleFiles, 1)

	reviewFiles, err := filepath.Glob(filepath.Join(dir, "car_reviews_*.csv"))
	require.NoError(t, err)
	assert.Len(t, reviewFiles, 1)
}

func TestExportAllCreatesDirectory(t *testing.T) {
	db := newTestDB(t)

	dir := filepath.Join(t.TempDir(), "nested", "project_data")
	require.NoError(t, ExportAll(context.Background(), db, dir))

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
