package page

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/mapper"
	"shopsearch/internal/apis/shopping/usecases"
	"shopsearch/internal/http-server/respond"
	"shopsearch/internal/http-server/view"
	"shopsearch/internal/http-server/websession"
	"shopsearch/internal/notice"
)

type Catalog interface {
	Geolocations(ctx context.Context) (shopping.Catalog, error)
}

type ExcelStatus interface {
	Count(ctx context.Context) (usecases.Status, error)
}

type Options struct {
	Log      *slog.Logger
	Sessions *websession.Manager
	Renderer *view.Renderer
	Catalog  Catalog
	Excel    ExcelStatus
	Timeout  time.Duration
}

// Builder assembles and renders the search page from the visitor's state.
type Builder struct {
	opts Options
	log  *slog.Logger

	mu        sync.Mutex
	countries []shopping.Geolocation
}

func NewBuilder(opts Options) *Builder {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Builder{opts: opts, log: log}
}

type RenderOptions struct {
	Status       int
	Card         *view.CardSelection
	DetailGeo    string
	DetailImage  int
	ConfirmClear bool
}

func (b *Builder) Render(w http.ResponseWriter, r *http.Request, ro RenderOptions) {
	ctx, cancel := context.WithTimeout(r.Context(), b.opts.Timeout)
	defer cancel()

	st := b.opts.Sessions.State(r.Context())
	qc := st.Query()

	p := view.Page{
		Query:        qc.Query,
		Geolocation:  qc.Geolocation,
		Tab:          st.Tab(),
		ConfirmClear: ro.ConfirmClear,
	}

	if n, ok := b.opts.Sessions.PopFlash(r.Context()); ok {
		p.Notice = &n
	}

	countries, err := b.loadCountries(ctx)
	if err != nil {
		b.log.Error("load countries failed", "err", err)
		if p.Notice == nil {
			n := notice.CountriesFailed()
			p.Notice = &n
		}
	}
	p.Countries = countries

	if tr, ok := st.Translation(); ok {
		tv := mapper.ToTranslationView(tr)
		p.Translation = &tv
	}

	if res, ok := st.Results(); ok {
		p.HasResults = true
		p.ResultsTitle = fmt.Sprintf("Search Results for \"%s\"", res.OriginalQuery)
		p.ResultsGeo = res.Geo.Label()
		p.Total = res.Total()
		p.MultiCount = len(res.Multi)
		p.SingleCount = len(res.Single)
		p.Cards = view.Cards(res, p.Tab, ro.Card)
	}

	if b.opts.Excel != nil {
		status, err := b.opts.Excel.Count(ctx)
		if err != nil {
			b.log.Warn("excel status failed", "err", err)
		}
		p.Excel = status
	}

	geo := ro.DetailGeo
	if geo == "" {
		geo = qc.Geolocation
	}
	p.Detail = view.Panel(st.Detail(), geo, ro.DetailImage)

	status := ro.Status
	if status == 0 {
		status = http.StatusOK
	}
	if err := b.opts.Renderer.Render(w, status, p); err != nil {
		b.log.Error("render page failed", "err", err)
		respond.WriteInternalError(w)
	}
}

// loadCountries fetches the catalog once; a failure is retried on the next
// page view.
func (b *Builder) loadCountries(ctx context.Context) ([]shopping.Geolocation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.countries != nil {
		return b.countries, nil
	}
	if b.opts.Catalog == nil {
		return nil, nil
	}

	cat, err := b.opts.Catalog.Geolocations(ctx)
	if err != nil {
		return nil, err
	}
	b.countries = cat.Sorted()
	return b.countries, nil
}
