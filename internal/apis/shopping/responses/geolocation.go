package responses

import "sort"

type Geolocation struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// Label is the picker text, flag first.
func (g Geolocation) Label() string {
	if g.Flag == "" {
		return g.Name
	}
	return g.Flag + " " + g.Name
}

// Catalog maps country code to its display info. Loaded once at startup.
type Catalog map[string]Geolocation

func (c Catalog) Lookup(code string) (Geolocation, bool) {
	g, ok := c[code]
	if !ok {
		return Geolocation{}, false
	}
	if g.Code == "" {
		g.Code = code
	}
	return g, true
}

// Sorted returns entries ordered by name, then code.
func (c Catalog) Sorted() []Geolocation {
	out := make([]Geolocation, 0, len(c))
	for code, g := range c {
		if g.Code == "" {
			g.Code = code
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Code < out[j].Code
	})
	return out
}
