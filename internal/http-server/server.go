package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shopsearch/internal/http-server/handlers/excel"
	"shopsearch/internal/http-server/handlers/home"
	"shopsearch/internal/http-server/handlers/page"
	"shopsearch/internal/http-server/handlers/products"
	"shopsearch/internal/http-server/handlers/search"
	"shopsearch/internal/http-server/middleware"
	"shopsearch/internal/http-server/respond"
	"shopsearch/internal/http-server/view"
	"shopsearch/internal/http-server/websession"
)

type Server struct {
	log      *slog.Logger
	router   chi.Router
	sessions *websession.Manager
}

func New(log *slog.Logger, sessions *websession.Manager) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{log: log, router: chi.NewRouter(), sessions: sessions}
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = s.sessions.LoadAndSave(h)
	h = middleware.NoStore(h)
	h = middleware.WithRequestID(h)
	h = middleware.RecoverPanic(s.log, h)
	h = middleware.AccessLog(s.log, h)
	return h
}

// Backend is everything the pages need from the use-case layer.
type Backend interface {
	page.Catalog
	search.Searcher
	products.DetailGetter
}

type Spreadsheet interface {
	page.ExcelStatus
	products.Saver
	excel.Exporter
}

type Deps struct {
	Search      Backend
	Spreadsheet Spreadsheet
	Renderer    *view.Renderer
	Timeout     time.Duration
}

func (s *Server) RegisterRoutes(dep Deps) {
	pb := page.NewBuilder(page.Options{
		Log:      s.log,
		Sessions: s.sessions,
		Renderer: dep.Renderer,
		Catalog:  dep.Search,
		Excel:    dep.Spreadsheet,
		Timeout:  dep.Timeout,
	})

	sh := search.New(search.Options{
		Log:      s.log,
		Searcher: dep.Search,
		Sessions: s.sessions,
		Timeout:  dep.Timeout,
	})

	ph := products.New(products.Options{
		Log:      s.log,
		Details:  dep.Search,
		Saver:    dep.Spreadsheet,
		Sessions: s.sessions,
		Page:     pb,
		Timeout:  dep.Timeout,
	})

	xh := excel.New(excel.Options{
		Log:      s.log,
		Exporter: dep.Spreadsheet,
		Sessions: s.sessions,
		Timeout:  dep.Timeout,
	})

	r := s.router
	r.Get("/", home.NewGetHandler(pb))
	r.Post("/search", sh.Search)
	r.Post("/translate", sh.Translate)
	r.Get("/tab/{tab}", sh.Tab)

	r.Get("/products/{id}", ph.Detail)
	r.Post("/products/close", ph.Close)
	r.Post("/products/save", ph.Save)
	r.Post("/cards/{tab}/{index}/save", ph.SaveCard)

	r.Get("/export", xh.Export)
	r.Post("/excel/clear", xh.Clear)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/static/*", view.Static())
}
