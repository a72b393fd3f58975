// Package view renders the single search page of the web UI.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/mapper"
	"shopsearch/internal/apis/shopping/usecases"
	"shopsearch/internal/appstate"
	"shopsearch/internal/notice"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Static serves the stylesheet and the placeholder image under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, p Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index", p); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

type Page struct {
	Notice      *notice.Notice
	Countries   []shopping.Geolocation
	Query       string
	Geolocation string
	Translation *mapper.TranslationView

	HasResults   bool
	ResultsTitle string
	ResultsGeo   string
	Total        int
	Tab          appstate.Tab
	MultiCount   int
	SingleCount  int
	Cards        []CardView

	Excel        usecases.Status
	ConfirmClear bool

	Detail *DetailPanel
}

type CardView struct {
	mapper.Card
	Index    int
	Image    string
	Position int
	PrevURL  string
	NextURL  string

	DetailURL string
	SaveURL   string
}

type DetailPanel struct {
	Loading bool
	Failed  bool
	Error   string
	CanSave bool

	View     mapper.Detail
	Image    string
	Position int
	PrevURL  string
	NextURL  string
}

// CardSelection is the card whose gallery was moved, with the image it shows.
type CardSelection struct {
	Index int
	Image int
}

// Cards turns the active tab of res into card views. sel moves one card's
// gallery; every other card shows its first image.
func Cards(res usecases.SearchResult, tab appstate.Tab, sel *CardSelection) []CardView {
	list, kind := res.Multi, mapper.SourceMultiple
	if tab == appstate.TabSingle {
		list, kind = res.Single, mapper.SourceSingle
	}

	geo := res.SourceGeo(tab == appstate.TabSingle)
	out := make([]CardView, 0, len(list))
	for i, p := range list {
		c := mapper.ToCard(p, geo, kind)
		g := mapper.NewGallery(c.Images)
		if sel != nil && sel.Index == i {
			g.Select(sel.Image)
		}

		v := CardView{
			Card:     c,
			Index:    i,
			Image:    g.Current(),
			Position: g.Index() + 1,
			SaveURL:  fmt.Sprintf("/cards/%s/%d/save", tab, i),
		}
		if c.HasGallery {
			v.PrevURL = cardURL(i, stepped(g, -1))
			v.NextURL = cardURL(i, stepped(g, 1))
		}
		if c.ProductID != "" {
			v.DetailURL = DetailURL(c.ProductID, geo.Code, 0)
		}
		out = append(out, v)
	}
	return out
}

// Panel builds the detail section for the current phase. image selects the
// gallery entry.
func Panel(d appstate.DetailView, geo string, image int) *DetailPanel {
	switch d.Phase {
	case appstate.DetailClosed:
		return nil
	case appstate.DetailLoading:
		return &DetailPanel{Loading: true}
	case appstate.DetailFailed:
		return &DetailPanel{Failed: true, Error: notice.DetailFailed(d.Err).Message}
	}

	view := mapper.ToDetail(d.Result.Detail, d.Result.Geo)
	g := mapper.NewGallery(view.Images)
	g.Select(image)

	p := &DetailPanel{
		CanSave:  true,
		View:     view,
		Image:    g.Current(),
		Position: g.Index() + 1,
	}
	if g.Multiple() {
		p.PrevURL = DetailURL(d.ProductID, geo, stepped(g, -1))
		p.NextURL = DetailURL(d.ProductID, geo, stepped(g, 1))
	}
	return p
}

func DetailURL(productID, geo string, image int) string {
	q := url.Values{}
	if geo != "" {
		q.Set("geo", geo)
	}
	if image > 0 {
		q.Set("image", fmt.Sprint(image))
	}
	u := "/products/" + url.PathEscape(productID)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func cardURL(index, image int) string {
	return fmt.Sprintf("/?card=%d&image=%d", index, image)
}

// stepped returns the index g would land on after one step, leaving g as is.
func stepped(g *mapper.Gallery, dir int) int {
	cp := mapper.NewGallery(g.Images())
	cp.Select(g.Index())
	if dir < 0 {
		cp.Prev()
	} else {
		cp.Next()
	}
	return cp.Index()
}
