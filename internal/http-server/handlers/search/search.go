package search

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/usecases"
	"shopsearch/internal/appstate"
	"shopsearch/internal/http-server/respond"
	"shopsearch/internal/http-server/websession"
	"shopsearch/internal/notice"
)

type Searcher interface {
	Search(ctx context.Context, qc usecases.QueryContext) (usecases.SearchResult, error)
	Translate(ctx context.Context, qc usecases.QueryContext) (shopping.Translation, error)
}

type Options struct {
	Log      *slog.Logger
	Searcher Searcher
	Sessions *websession.Manager
	Timeout  time.Duration
}

type Handler struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options) *Handler {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Handler{opts: opts, log: log}
}

func formQuery(r *http.Request) (usecases.QueryContext, error) {
	if err := r.ParseForm(); err != nil {
		return usecases.QueryContext{}, err
	}
	return usecases.QueryContext{
		Query:       r.PostForm.Get("query"),
		Geolocation: r.PostForm.Get("geolocation"),
	}, nil
}

// Search handles POST /search. action=translate runs Translate instead.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	qc, err := formQuery(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "bad_request", "invalid form")
		return
	}
	if r.PostForm.Get("action") == "translate" {
		h.translate(w, r, qc)
		return
	}

	ctx := r.Context()
	st := h.opts.Sessions.State(ctx)
	st.SetQuery(qc)

	if _, err := qc.Validate(); err != nil {
		h.opts.Sessions.Flash(ctx, notice.SearchFailed(err))
		respond.SeeOther(w, r, "/")
		return
	}

	ticket, sctx := st.BeginSearch(ctx)
	sctx, cancel := context.WithTimeout(sctx, h.opts.Timeout)
	defer cancel()

	res, err := h.opts.Searcher.Search(sctx, qc)
	if err != nil {
		if !st.FailSearch(ticket) {
			h.log.Debug("superseded search dropped", "query", qc.Query)
			respond.SeeOther(w, r, "/")
			return
		}
		h.log.Error("search failed", "err", err, "query", qc.Query, "geolocation", qc.Geolocation)
		h.opts.Sessions.Flash(ctx, notice.SearchFailed(err))
		respond.SeeOther(w, r, "/")
		return
	}

	if st.CompleteSearch(ticket, res) {
		h.opts.Sessions.Flash(ctx, notice.SearchFound(res))
	} else {
		h.log.Debug("superseded search dropped", "query", qc.Query)
	}
	respond.SeeOther(w, r, "/")
}

// Translate handles POST /translate.
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	qc, err := formQuery(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "bad_request", "invalid form")
		return
	}
	h.translate(w, r, qc)
}

func (h *Handler) translate(w http.ResponseWriter, r *http.Request, qc usecases.QueryContext) {
	ctx := r.Context()
	st := h.opts.Sessions.State(ctx)
	st.SetQuery(qc)

	tctx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	tr, err := h.opts.Searcher.Translate(tctx, qc)
	if err != nil {
		if _, invalid := notice.Validation(err, notice.Error); !invalid {
			h.log.Error("translate failed", "err", err, "query", qc.Query)
		}
		h.opts.Sessions.Flash(ctx, notice.TranslationFailed(err))
		respond.SeeOther(w, r, "/")
		return
	}

	st.SetTranslation(tr)
	h.opts.Sessions.Flash(ctx, notice.TranslationDone())
	respond.SeeOther(w, r, "/")
}

// Tab handles GET /tab/{tab}.
func (h *Handler) Tab(w http.ResponseWriter, r *http.Request) {
	tab, ok := appstate.ParseTab(chi.URLParam(r, "tab"))
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "not_found", "unknown tab")
		return
	}
	h.opts.Sessions.State(r.Context()).SetTab(tab)
	respond.SeeOther(w, r, "/")
}
