package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/mapper"
	"shopsearch/internal/apis/shopping/usecases"
	"shopsearch/internal/appstate"
	"shopsearch/internal/notice"
	"shopsearch/internal/repository/xlsx"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func printNotice(w io.Writer, n notice.Notice) {
	color := text.FgGreen
	switch n.Kind {
	case notice.Error:
		color = text.FgRed
	case notice.Warning:
		color = text.FgYellow
	}
	fmt.Fprintln(w, color.Sprintf("[%s] %s", n.Kind, n.Message))
}

func renderGeolocations(w io.Writer, geos []shopping.Geolocation) {
	t := newTable(w, "")
	t.AppendHeader(table.Row{"Code", "Flag", "Name"})
	for _, g := range geos {
		t.AppendRow(table.Row{g.Code, g.Flag, g.Name})
	}
	t.Render()
}

func renderTranslation(w io.Writer, v mapper.TranslationView) {
	t := newTable(w, "Query translation")
	t.AppendRow(table.Row{"Original", v.Original})
	t.AppendRow(table.Row{"Translated", v.Translated})
	t.AppendFooter(table.Row{"", v.Label})
	t.Render()
}

func renderResultsHeader(w io.Writer, res usecases.SearchResult) {
	fmt.Fprintf(w, "Search Results for %q\n%d products found  %s\n", res.OriginalQuery, res.Total(), res.Geo.Label())
}

func renderCards(w io.Writer, tab appstate.Tab, res usecases.SearchResult) {
	list, kind, title := res.Multi, mapper.SourceMultiple, "Multiple Sources"
	if tab == appstate.TabSingle {
		list, kind, title = res.Single, mapper.SourceSingle, "Single Source"
	}

	t := newTable(w, fmt.Sprintf("%s (%d)", title, len(list)))
	t.AppendHeader(table.Row{"#", "Title", "Price", "Rating", "Sellers", "Images", "Product ID"})
	for i, c := range mapper.ToCards(list, res.SourceGeo(tab == appstate.TabSingle), kind) {
		t.AppendRow(table.Row{i, text.Trim(c.Title, 60), c.PriceText, c.RatingText, c.SellerText, len(c.Images), c.ProductID})
	}
	if len(list) == 0 {
		t.AppendFooter(table.Row{"", "No products found"})
	}
	t.Render()
}

func renderDetail(w io.Writer, d mapper.Detail, g *mapper.Gallery) {
	t := newTable(w, d.Header)
	t.AppendRow(table.Row{"Title", d.Title})
	t.AppendRow(table.Row{"Price", d.PriceText})
	t.AppendRow(table.Row{"Rating", d.RatingText})
	t.AppendRow(table.Row{"Country", d.Country})
	if d.Description != "" {
		t.AppendRow(table.Row{"Description", text.WrapSoft(d.Description, 80)})
	}
	t.Render()

	if g.Len() > 0 {
		it := newTable(w, fmt.Sprintf("Product Images (%d)", g.Len()))
		for i, img := range g.Images() {
			mark := ""
			if i == g.Index() {
				mark = "*"
			}
			it.AppendRow(table.Row{mark, i, img})
		}
		it.Render()
	}

	if d.NoSellers {
		fmt.Fprintln(w, "No seller information available")
		return
	}
	st := newTable(w, fmt.Sprintf("Sellers (%d)", len(d.SellerViews)))
	st.AppendHeader(table.Row{"Rank", "Name", "Price", "Base", "Shipping", "Total", "Link"})
	for _, s := range d.SellerViews {
		st.AppendRow(table.Row{s.Rank, s.Name, s.PriceText, s.BasePrice, s.Shipping, s.TotalPrice, s.Link})
	}
	st.Render()
}

func renderRows(w io.Writer, rows []mapper.Row) {
	t := newTable(w, "Spreadsheet rows")
	t.AppendHeader(table.Row{"#", "Geolocation", "Title", "Product ID", "Sellers", "Seller", "Total", "Shipping"})
	for _, r := range rows {
		count := ""
		if r.SellerCount != nil {
			count = strconv.Itoa(*r.SellerCount)
		}
		t.AppendRow(table.Row{r.SellerIndex, r.Geolocation, text.Trim(r.Title, 40), r.ProductID, count, r.SellerName, r.TotalPrice, r.Shipping})
	}
	t.Render()
}

func renderStatus(w io.Writer, st usecases.Status) {
	fmt.Fprintf(w, "%d items saved\n", st.Count)
	if !st.CanExport {
		fmt.Fprintln(w, "nothing to export")
	}
}

func renderWorkbook(w io.Writer, path string, sum xlsx.Summary) {
	t := newTable(w, path)
	t.AppendHeader(table.Row{"Sheet", "Rows", "Columns"})
	for _, sh := range sum.Sheets {
		t.AppendRow(table.Row{sh.Name, sh.Rows, len(sh.Header)})
	}
	t.AppendFooter(table.Row{"Total", sum.TotalRows(), ""})
	t.Render()
}
