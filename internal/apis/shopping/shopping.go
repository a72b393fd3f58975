package shopping

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"shopsearch/internal/apis/shopping/endpoints"
	"shopsearch/internal/apis/shopping/responses"
	"shopsearch/internal/client/transport"
)

type Geolocation = responses.Geolocation
type Catalog = responses.Catalog
type ProductSummary = responses.ProductSummary
type ProductDetail = responses.ProductDetail
type Seller = responses.Seller
type SellersResults = responses.SellersResults
type SearchPage = responses.SearchPage
type DetailPage = responses.DetailPage
type Translation = responses.Translation
type SpreadsheetRow = responses.SpreadsheetRow

// Service is the shopping aggregation backend.
type Service interface {
	ListGeolocations(ctx context.Context) (Catalog, error)
	Translate(ctx context.Context, query, geolocation string) (Translation, error)
	Search(ctx context.Context, query, geolocation string) (SearchPage, error)
	SearchSingleSource(ctx context.Context, query, geolocation string) (SearchPage, error)
	ProductDetails(ctx context.Context, productID, geolocation string) (DetailPage, error)

	SaveToExcel(ctx context.Context, product any) (int, error)
	SaveMultipleToExcel(ctx context.Context, rows []SpreadsheetRow) (int, error)
	ExcelDataCount(ctx context.Context) (int, error)
	ExportExcel(ctx context.Context, w io.Writer) (int64, error)
	ClearExcelData(ctx context.Context) error
}

type service struct {
	api       *endpoints.Client
	log       *slog.Logger
	userAgent string
}

func New(tr transport.Transport, baseURL string, logger *slog.Logger) Service {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{log: logger, userAgent: "shopsearch/1.0"}
	s.api = endpoints.New(tr, baseURL, s.applyDefaultHeaders)
	return s
}

func (s *service) applyDefaultHeaders(req *http.Request) {
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
}

func (s *service) ListGeolocations(ctx context.Context) (Catalog, error) {
	return s.api.ListGeolocations(ctx)
}

func (s *service) Translate(ctx context.Context, query, geolocation string) (Translation, error) {
	return s.api.Translate(ctx, query, geolocation)
}

func (s *service) Search(ctx context.Context, query, geolocation string) (SearchPage, error) {
	s.log.Debug("search multi-source", "query", query, "geolocation", geolocation)
	return s.api.Search(ctx, query, geolocation)
}

func (s *service) SearchSingleSource(ctx context.Context, query, geolocation string) (SearchPage, error) {
	s.log.Debug("search single-source", "query", query, "geolocation", geolocation)
	return s.api.SearchSingleSource(ctx, query, geolocation)
}

func (s *service) ProductDetails(ctx context.Context, productID, geolocation string) (DetailPage, error) {
	return s.api.ProductDetails(ctx, productID, geolocation)
}

func (s *service) SaveToExcel(ctx context.Context, product any) (int, error) {
	return s.api.SaveToExcel(ctx, product)
}

func (s *service) SaveMultipleToExcel(ctx context.Context, rows []SpreadsheetRow) (int, error) {
	return s.api.SaveMultipleToExcel(ctx, rows)
}

func (s *service) ExcelDataCount(ctx context.Context) (int, error) {
	return s.api.ExcelDataCount(ctx)
}

func (s *service) ExportExcel(ctx context.Context, w io.Writer) (int64, error) {
	return s.api.ExportExcel(ctx, w)
}

func (s *service) ClearExcelData(ctx context.Context) error {
	return s.api.ClearExcelData(ctx)
}
