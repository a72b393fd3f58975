package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsearch/internal/apis/shopping"
)

func product(t *testing.T, body string) shopping.ProductSummary {
	t.Helper()
	var p shopping.ProductSummary
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestResolveImages_ThumbnailFirst(t *testing.T) {
	p := product(t, `{
		"thumbnail": "https://img/t.jpg",
		"thumbnails": ["https://img/a.jpg"],
		"serpapi_thumbnails": ["https://img/b.jpg"]
	}`)

	got := ResolveImages(p)
	require.NotEmpty(t, got)
	assert.Equal(t, "https://img/t.jpg", got[0])
	assert.Equal(t, []string{"https://img/t.jpg", "https://img/a.jpg", "https://img/b.jpg"}, got)
}

func TestResolveImages_NothingFound(t *testing.T) {
	got := ResolveImages(product(t, `{"title":"no images"}`))
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, PlaceholderImage, MainImage(got))
}

func TestResolveImages_DedupAcrossSources(t *testing.T) {
	p := product(t, `{
		"thumbnail": "https://img/t.jpg",
		"thumbnails": ["https://img/t.jpg", "  ", "https://img/a.jpg"],
		"serpapi_thumbnails": ["https://img/a.jpg"]
	}`)

	assert.Equal(t, []string{"https://img/t.jpg", "https://img/a.jpg"}, ResolveImages(p))
}

func TestResolveImages_FallbackGating(t *testing.T) {
	p := product(t, `{
		"thumbnail": "https://img/t.jpg",
		"serpapi_thumbnails": ["https://img/s.jpg"],
		"images": ["https://img/i.jpg"],
		"rich_snippet": {"top": {"images": ["https://img/r.jpg"]}},
		"inline_images": [{"url": "https://img/in.jpg"}]
	}`)

	got := ResolveImages(p)
	assert.Equal(t, []string{"https://img/t.jpg", "https://img/s.jpg"}, got)
}

func TestResolveImages_FallbackSources(t *testing.T) {
	p := product(t, `{
		"thumbnail": "https://img/t.jpg",
		"images": ["https://img/t.jpg", {"url": "https://img/u.jpg"}, {"alt": "none"}],
		"rich_snippet": {"top": {"images": [{"src": "https://img/r.jpg"}]}},
		"inline_images": [{"url": "https://img/in.jpg", "src": "https://img/ignored.jpg"}, 7]
	}`)

	assert.Equal(t, []string{
		"https://img/t.jpg",
		"https://img/u.jpg",
		"https://img/r.jpg",
		"https://img/in.jpg",
	}, ResolveImages(p))
}

func TestResolveImages_SkipsNonStringThumbnails(t *testing.T) {
	p := product(t, `{"thumbnails": [null, 3, "https://img/a.jpg"]}`)
	assert.Equal(t, []string{"https://img/a.jpg"}, ResolveImages(p))
}
