package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto-intel/pipeline/internal/database"
)

func newTestRepo(t *testing.T) (RecordRepository, *database.DB) {
	t.Helper()

	db, err := database.NewDB(database.NewSQLiteConfig(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), db
}

// seedArticles inserts n articles one minute apart starting at base.
func seedArticles(t *testing.T, db *database.DB, base time.Time, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		_, err := db.Exec(
			"INSERT INTO article_news (title, link, source, created_at) VALUES (?, ?, ?, ?)",
			fmt.Sprintf("Article %02d", i),
			fmt.Sprintf("https://example.com/news/%02d", i),
			"Car Magazine UK",
			base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
}

func TestFetchArticlesSince(t *testing.T) {
	repo, db := newTestRepo(t)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	seedArticles(t, db, base, 5)

	since := base.Add(90 * time.Second) // after article 01
	articles, err := repo.FetchArticles(context.Background(), 10, &since, nil, nil)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "Article 02", articles[0].Title)
	assert.Equal(t, "Article 04", articles[2].Title)
}

func TestFetchArticlesLimit(t *testing.T) {
	repo, db := newTestRepo(t)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	seedArticles(t, db, base, 5)

	since := base.Add(-time.Hour)
	articles, err := repo.FetchArticles(context.Background(), 2, &since, nil, nil)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Article 00", articles[0].Title)
	assert.Equal(t, "Article 01", articles[1].Title)
}

func TestFetchArticlesCursorWalksWholeSet(t *testing.T) {
	repo, db := newTestRepo(t)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	seedArticles(t, db, base, 5)

	// First page via since, following pages via the (created_at, link) cursor.
	since := base.Add(-time.Hour)
	page, err := repo.FetchArticles(context.Background(), 2, &since, nil, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)

	var seen []string
	for _, a := range page {
		seen = append(seen, a.Title)
	}

	for len(page) > 0 {
		last := page[len(page)-1]
		ts := last.CreatedAt.UTC()
		link := last.Link
		page, err = repo.FetchArticles(context.Background(), 2, nil, &ts, &link)
		require.NoError(t, err)
		for _, a := range page {
			seen = append(seen, a.Title)
		}
	}

	assert.Equal(t, []string{"Article 00", "Article 01", "Article 02", "Article 03", "Article 04"}, seen)
}

func TestFetchArticlesCursorBreaksTiesOnLink(t *testing.T) {
	repo, db := newTestRepo(t)
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	// Three rows sharing one timestamp; ordering falls back to link.
	for _, link := range []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"} {
		_, err := db.Exec(
			"INSERT INTO article_news (title, link, source, created_at) VALUES (?, ?, ?, ?)",
			"Tied", link, "Car Magazine UK", ts)
		require.NoError(t, err)
	}

	linkA := "https://example.com/a"
	cursorTS := ts
	articles, err := repo.FetchArticles(context.Background(), 10, nil, &cursorTS, &linkA)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "https://example.com/b", articles[0].Link)
	assert.Equal(t, "https://example.com/c", articles[1].Link)
}

func TestFetchReviewsSince(t *testing.T) {
	repo, db := newTestRepo(t)
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	_, err := db.Exec(
		"INSERT INTO car_reviews (title, link, source, rating, price, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		"SUV review", "https://example.com/suv", "Auto Express", 4.2, 45999, ts)
	require.NoError(t, err)

	since := ts.Add(-time.Hour)
	reviews, err := repo.FetchReviews(context.Background(), 10, &since, nil, nil)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotNil(t, reviews[0].Rating)
	assert.InDelta(t, 4.2, *reviews[0].Rating, 1e-9)
	require.NotNil(t, reviews[0].Price)
	assert.Equal(t, int64(45999), *reviews[0].Price)
}

func TestFetchRequiresWindow(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.FetchArticles(context.Background(), 10, nil, nil, nil)
	assert.Error(t, err)

	_, err = repo.FetchReviews(context.Background(), 10, nil, nil, nil)
	assert.Error(t, err)
}
