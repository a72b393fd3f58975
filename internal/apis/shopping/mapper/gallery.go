package mapper

// Gallery is the rotation state of one card or detail panel.
type Gallery struct {
	images []string
	index  int
}

func NewGallery(images []string) *Gallery {
	cp := make([]string, len(images))
	copy(cp, images)
	return &Gallery{images: cp}
}

func (g *Gallery) Len() int { return len(g.images) }

// Multiple reports whether there is anything to rotate through.
func (g *Gallery) Multiple() bool { return len(g.images) > 1 }

func (g *Gallery) Index() int { return g.index }

// Current returns the shown image, or PlaceholderImage for an empty gallery.
func (g *Gallery) Current() string {
	if len(g.images) == 0 {
		return PlaceholderImage
	}
	return g.images[g.index]
}

func (g *Gallery) Images() []string {
	out := make([]string, len(g.images))
	copy(out, g.images)
	return out
}

func (g *Gallery) Next() string { return g.step(1) }

func (g *Gallery) Prev() string { return g.step(-1) }

func (g *Gallery) step(dir int) string {
	n := len(g.images)
	if n <= 1 {
		return g.Current()
	}
	g.index = ((g.index+dir)%n + n) % n
	return g.images[g.index]
}

// Select jumps to i; out of range indexes are ignored.
func (g *Gallery) Select(i int) string {
	if i >= 0 && i < len(g.images) {
		g.index = i
	}
	return g.Current()
}

func (g *Gallery) Reset() {
	g.index = 0
}
