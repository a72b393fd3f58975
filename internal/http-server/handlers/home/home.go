package home

import (
	"net/http"

	"shopsearch/internal/http-server/handlers/page"
	"shopsearch/internal/http-server/query"
	"shopsearch/internal/http-server/view"
)

// NewGetHandler serves GET /. ?card=i&image=n moves one card's gallery,
// ?confirm=clear asks before the spreadsheet data is cleared.
func NewGetHandler(b *page.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ro page.RenderOptions

		if card, ok, err := query.Int(r, "card"); err == nil && ok {
			ro.Card = &view.CardSelection{Index: card, Image: query.IntOr(r, "image", 0)}
		} else {
			ro.DetailImage = query.IntOr(r, "image", 0)
		}
		ro.ConfirmClear = query.String(r, "confirm") == "clear"

		b.Render(w, r, ro)
	}
}
