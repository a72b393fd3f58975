package products

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/usecases"
	"shopsearch/internal/appstate"
	"shopsearch/internal/http-server/handlers/page"
	"shopsearch/internal/http-server/query"
	"shopsearch/internal/http-server/respond"
	"shopsearch/internal/http-server/websession"
	"shopsearch/internal/notice"
)

type DetailGetter interface {
	FetchDetail(ctx context.Context, productID, geolocation string) (usecases.DetailResult, error)
}

type Saver interface {
	SaveDetail(ctx context.Context, d shopping.ProductDetail, geo shopping.Geolocation, queryText string) (usecases.SaveResult, error)
	SaveCard(ctx context.Context, p shopping.ProductSummary, geo shopping.Geolocation) (usecases.SaveResult, error)
}

type Options struct {
	Log      *slog.Logger
	Details  DetailGetter
	Saver    Saver
	Sessions *websession.Manager
	Page     *page.Builder
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

// Detail handles GET /products/{id}. A detail already loaded for the same
// product is reused so gallery navigation does not refetch.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respond.WriteError(w, http.StatusBadRequest, "bad_request", "product id is required")
		return
	}

	image, _, err := query.Int(r, "image")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	ctx := r.Context()
	st := h.opts.Sessions.State(ctx)
	geo := query.String(r, "geo", "geolocation")
	if geo == "" {
		geo = st.Query().Geolocation
	}

	if d := st.Detail(); d.Phase != appstate.DetailLoaded || d.ProductID != id {
		h.load(ctx, st, id, geo)
	}

	h.opts.Page.Render(w, r, page.RenderOptions{DetailGeo: geo, DetailImage: image})
}

func (h *Handler) load(ctx context.Context, st *appstate.State, id, geo string) {
	ticket, dctx := st.BeginDetail(ctx, id)
	dctx, cancel := context.WithTimeout(dctx, h.opts.Timeout)
	defer cancel()

	res, err := h.opts.Details.FetchDetail(dctx, id, geo)
	if err != nil {
		if st.FailDetail(ticket, err) {
			h.log.Error("product details failed", "err", err, "product_id", id, "geolocation", geo)
		}
		return
	}
	if !st.FinishDetail(ticket, res) {
		h.log.Debug("superseded detail dropped", "product_id", id)
	}
}

// Close handles POST /products/close.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	h.opts.Sessions.State(r.Context()).CloseDetail()
	respond.SeeOther(w, r, "/")
}

// Save handles POST /products/save: one row per seller of the open detail.
// The detail closes afterwards.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := h.opts.Sessions.State(ctx)

	if !st.CanSave() {
		h.opts.Sessions.Flash(ctx, notice.NothingToSave())
		respond.SeeOther(w, r, "/")
		return
	}
	d := st.Detail()
	queryText := st.Query().Query
	st.CloseDetail()

	sctx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	res, err := h.opts.Saver.SaveDetail(sctx, d.Result.Detail, d.Result.Geo, queryText)
	if err != nil {
		h.log.Error("save detail failed", "err", err, "product_id", d.ProductID)
		h.opts.Sessions.Flash(ctx, notice.SaveProductsFailed(err))
		respond.SeeOther(w, r, "/")
		return
	}
	h.opts.Sessions.Flash(ctx, notice.SellerRowsSaved(res))
	respond.SeeOther(w, r, "/")
}

// SaveCard handles POST /cards/{tab}/{index}/save.
func (h *Handler) SaveCard(w http.ResponseWriter, r *http.Request) {
	tab, ok := appstate.ParseTab(chi.URLParam(r, "tab"))
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "not_found", "unknown tab")
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "bad_request", "index must be integer")
		return
	}

	ctx := r.Context()
	st := h.opts.Sessions.State(ctx)
	p, geo, ok := st.Product(tab, index)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "not_found", "no such product")
		return
	}

	sctx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	res, err := h.opts.Saver.SaveCard(sctx, p, geo)
	if err != nil {
		h.log.Error("save card failed", "err", err, "tab", tab, "index", index)
		h.opts.Sessions.Flash(ctx, notice.SaveProductFailed(err))
		respond.SeeOther(w, r, "/")
		return
	}
	h.opts.Sessions.Flash(ctx, notice.ProductSaved(res))
	respond.SeeOther(w, r, "/")
}
