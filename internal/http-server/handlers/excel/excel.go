package excel

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"shopsearch/internal/apis/shopping/usecases"
	"shopsearch/internal/http-server/respond"
	"shopsearch/internal/http-server/websession"
	"shopsearch/internal/notice"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Exporter interface {
	Export(ctx context.Context, w io.Writer) (int64, error)
	Clear(ctx context.Context) error
}

type Options struct {
	Log      *slog.Logger
	Exporter Exporter
	Sessions *websession.Manager
	Timeout  time.Duration
	Now      func() time.Time
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
		opts.Timeout = 120 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{opts: opts, log: log}
}

// Export handles GET /export. The workbook is buffered so a failed backend
// call can still send the browser back with a notice.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.Timeout)
	defer cancel()

	var buf bytes.Buffer
	if _, err := h.opts.Exporter.Export(ctx, &buf); err != nil {
		h.log.Error("export failed", "err", err)
		h.opts.Sessions.Flash(r.Context(), notice.ExportFailed(err))
		respond.SeeOther(w, r, "/")
		return
	}

	h.opts.Sessions.Flash(r.Context(), notice.Exported())
	name := usecases.ExportFilename(h.opts.Now())
	respond.Attachment(w, xlsxType, name)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Clear handles POST /excel/clear. Without confirm=yes it only asks.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "bad_request", "invalid form")
		return
	}
	if r.PostForm.Get("confirm") != "yes" {
		respond.SeeOther(w, r, "/?confirm=clear")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.Timeout)
	defer cancel()

	if err := h.opts.Exporter.Clear(ctx); err != nil {
		h.log.Error("clear excel data failed", "err", err)
		h.opts.Sessions.Flash(r.Context(), notice.ClearFailed(err))
		respond.SeeOther(w, r, "/")
		return
	}
	h.opts.Sessions.Flash(r.Context(), notice.Cleared())
	respond.SeeOther(w, r, "/")
}
