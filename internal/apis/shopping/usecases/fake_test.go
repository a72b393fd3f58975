package usecases

import (
	"context"
	"errors"
	"io"
	"sync"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/responses"
)

var errNotStubbed = errors.New("not stubbed")

// fakeShop records calls and answers from the configured funcs.
type fakeShop struct {
	mu    sync.Mutex
	calls []string

	geolocations func() (shopping.Catalog, error)
	translate    func(q, geo string) (shopping.Translation, error)
	search       func(q, geo string) (shopping.SearchPage, error)
	searchSingle func(q, geo string) (shopping.SearchPage, error)
	details      func(id, geo string) (shopping.DetailPage, error)
	saveOne      func(product any) (int, error)
	saveMany     func(rows []shopping.SpreadsheetRow) (int, error)
	count        func() (int, error)
	export       func(w io.Writer) (int64, error)
	clear        func() error
}

func (f *fakeShop) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeShop) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeShop) ListGeolocations(context.Context) (shopping.Catalog, error) {
	f.record("geolocations")
	if f.geolocations == nil {
		return nil, errNotStubbed
	}
	return f.geolocations()
}

func (f *fakeShop) Translate(_ context.Context, q, geo string) (shopping.Translation, error) {
	f.record("translate")
	if f.translate == nil {
		return shopping.Translation{}, errNotStubbed
	}
	return f.translate(q, geo)
}

func (f *fakeShop) Search(_ context.Context, q, geo string) (shopping.SearchPage, error) {
	f.record("search")
	if f.search == nil {
		return shopping.SearchPage{}, errNotStubbed
	}
	return f.search(q, geo)
}

func (f *fakeShop) SearchSingleSource(_ context.Context, q, geo string) (shopping.SearchPage, error) {
	f.record("search-single-source")
	if f.searchSingle == nil {
		return shopping.SearchPage{}, errNotStubbed
	}
	return f.searchSingle(q, geo)
}

func (f *fakeShop) ProductDetails(_ context.Context, id, geo string) (shopping.DetailPage, error) {
	f.record("product-details")
	if f.details == nil {
		return shopping.DetailPage{}, errNotStubbed
	}
	return f.details(id, geo)
}

func (f *fakeShop) SaveToExcel(_ context.Context, product any) (int, error) {
	f.record("save-to-excel")
	if f.saveOne == nil {
		return 0, errNotStubbed
	}
	return f.saveOne(product)
}

func (f *fakeShop) SaveMultipleToExcel(_ context.Context, rows []shopping.SpreadsheetRow) (int, error) {
	f.record("save-multiple-to-excel")
	if f.saveMany == nil {
		return 0, errNotStubbed
	}
	return f.saveMany(rows)
}

func (f *fakeShop) ExcelDataCount(context.Context) (int, error) {
	f.record("excel-data-count")
	if f.count == nil {
		return 0, errNotStubbed
	}
	return f.count()
}

func (f *fakeShop) ExportExcel(_ context.Context, w io.Writer) (int64, error) {
	f.record("export-excel")
	if f.export == nil {
		return 0, errNotStubbed
	}
	return f.export(w)
}

func (f *fakeShop) ClearExcelData(context.Context) error {
	f.record("clear")
	if f.clear == nil {
		return errNotStubbed
	}
	return f.clear()
}

func hits(titles ...string) []shopping.ProductSummary {
	out := make([]shopping.ProductSummary, 0, len(titles))
	for _, t := range titles {
		out = append(out, shopping.ProductSummary{Title: responses.Text(t)})
	}
	return out
}
