package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auto-intel/pipeline/internal/database"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *database.DB) {
	t.Helper()

	db, err := database.NewDB(database.NewSQLiteConfig(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewCache(NewAnalyzer(NewLoader(db)), ttl), db
}

func insertArticle(t *testing.T, db *database.DB, title, link string) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO article_news (title, link, source) VALUES (?, ?, ?)",
		title, link, "Car Magazine UK")
	require.NoError(t, err)
}

func TestCacheServesFreshReport(t *testing.T) {
	cache, db := newTestCache(t, time.Hour)
	insertArticle(t, db, "First story", "https://example.com/1")

	report, err := cache.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Articles.Total)

	// Within the TTL the cached snapshot is returned unchanged.
	insertArticle(t, db, "Second story", "https://example.com/2")

	cached, err := cache.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cached.Articles.Total)
	assert.Equal(t, report.GeneratedAt, cached.GeneratedAt)
}

func TestCacheRefreshRecomputes(t *testing.T) {
	cache, db := newTestCache(t, time.Hour)
	insertArticle(t, db, "First story", "https://example.com/1")

	_, err := cache.Report(context.Background())
	require.NoError(t, err)

	insertArticle(t, db, "Second story", "https://example.com/2")

	report, err := cache.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Articles.Total)
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	cache, db := newTestCache(t, time.Nanosecond)
	insertArticle(t, db, "First story", "https://example.com/1")

	_, err := cache.Report(context.Background())
	require.NoError(t, err)

	insertArticle(t, db, "Second story", "https://example.com/2")
	time.Sleep(time.Millisecond)

	report, err := cache.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Articles.Total)
}
