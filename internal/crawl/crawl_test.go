package crawl

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsStartURLs(t *testing.T) {
	t.Parallel()

	urls := NewsStartURLs()
	// 20 Car Magazine pages, the PistonHeads root, 2x4 Auto Express pages.
	require.Len(t, urls, 29)

	assert.Equal(t, "https://www.carmagazine.co.uk/car-news/", urls[0])
	assert.Equal(t, "https://www.carmagazine.co.uk/car-news/?page=2", urls[1])
	assert.Contains(t, urls, "https://www.pistonheads.com/news")
	assert.Contains(t, urls, "https://www.autoexpress.co.uk/car-news")
	assert.Contains(t, urls, "https://www.autoexpress.co.uk/consumer-issues?page=4")

	for _, raw := range urls {
		u, err := url.Parse(raw)
		require.NoError(t, err, "url %s", raw)
		assert.Equal(t, "https", u.Scheme, "url %s", raw)
	}
}

func TestReviewStartURLs(t *testing.T) {
	t.Parallel()

	urls := ReviewStartURLs()
	require.Len(t, urls, 60)

	assert.Equal(t, "https://www.autoexpress.co.uk/car-reviews?page=1", urls[0])
	assert.Equal(t, "https://www.carbuyer.co.uk/reviews?page=30", urls[59])
}

func TestWithWWW(t *testing.T) {
	t.Parallel()

	got := withWWW([]string{"carmagazine.co.uk", "www.pistonheads.com"})
	assert.Contains(t, got, "carmagazine.co.uk")
	assert.Contains(t, got, "www.carmagazine.co.uk")
	assert.Contains(t, got, "www.pistonheads.com")
}

func TestNewCollectorRestrictsDomains(t *testing.T) {
	t.Parallel()

	c, err := newCollector(context.Background(), "TestBot/1.0", []string{"carmagazine.co.uk"})
	require.NoError(t, err)

	assert.Equal(t, "TestBot/1.0", c.UserAgent)
	assert.Contains(t, c.AllowedDomains, "carmagazine.co.uk")
	assert.Contains(t, c.AllowedDomains, "www.carmagazine.co.uk")
	assert.NotContains(t, c.AllowedDomains, "example.com")
}
