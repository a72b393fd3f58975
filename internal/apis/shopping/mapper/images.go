package mapper

import (
	"strings"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/responses"
)

// PlaceholderImage is shown when a product has no usable image.
const PlaceholderImage = "/static/placeholder-image.png"

// ResolveImages collects candidate image URLs for a search hit.
//
// Thumbnail sources are read first: thumbnail, thumbnails[],
// serpapi_thumbnails[]. images[], rich_snippet.top.images[] and
// inline_images[] are consulted only while at most one URL was found.
// Duplicates are dropped by exact string match over the whole list.
func ResolveImages(p shopping.ProductSummary) []string {
	set := newOrderedSet()

	if t := p.Thumbnail.String(); t != "" {
		set.add(t)
	}
	for _, u := range p.Thumbnails {
		if strings.TrimSpace(u) != "" {
			set.add(u)
		}
	}
	for _, u := range p.SerpapiThumbnails {
		if strings.TrimSpace(u) != "" {
			set.add(u)
		}
	}

	if set.len() <= 1 {
		set.addFields(p.Images)
		if p.RichSnippet != nil {
			set.addFields(p.RichSnippet.Top.Images)
		}
		set.addFields(p.InlineImages)
	}

	return set.items
}

// MainImage is the first candidate or the placeholder.
func MainImage(images []string) string {
	if len(images) == 0 {
		return PlaceholderImage
	}
	return images[0]
}

type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{items: []string{}, seen: map[string]struct{}{}}
}

func (s *orderedSet) len() int { return len(s.items) }

func (s *orderedSet) add(u string) {
	if _, ok := s.seen[u]; ok {
		return
	}
	s.seen[u] = struct{}{}
	s.items = append(s.items, u)
}

func (s *orderedSet) addFields(fs responses.URLFields) {
	for _, f := range fs {
		if u, ok := f.Resolve(); ok {
			s.add(u)
		}
	}
}
