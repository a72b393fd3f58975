package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/endpoints"
	"shopsearch/internal/apis/shopping/responses"
)

var (
	ErrQueryRequired     = errors.New("search query is required")
	ErrCountryRequired   = errors.New("country is required")
	ErrProductIDRequired = errors.New("product id is required")
)

// QueryContext is one user search or translate action.
type QueryContext struct {
	Query       string
	Geolocation string
}

// Validate trims both fields and reports the first missing one.
func (q QueryContext) Validate() (QueryContext, error) {
	q.Query = strings.TrimSpace(q.Query)
	q.Geolocation = strings.TrimSpace(q.Geolocation)
	if q.Query == "" {
		return q, ErrQueryRequired
	}
	if q.Geolocation == "" {
		return q, ErrCountryRequired
	}
	return q, nil
}

// SearchError is a failed dual search. Message prefers the multi-source
// error, then the single-source one, then a generic text.
type SearchError struct {
	Message   string
	MultiErr  error
	SingleErr error
}

func (e *SearchError) Error() string { return e.Message }

func (e *SearchError) Unwrap() []error {
	var out []error
	if e.MultiErr != nil {
		out = append(out, e.MultiErr)
	}
	if e.SingleErr != nil {
		out = append(out, e.SingleErr)
	}
	return out
}

// SearchResult keeps both collections apart for tabbed display.
type SearchResult struct {
	Query         string
	OriginalQuery string
	Geo           shopping.Geolocation
	SingleGeo     shopping.Geolocation
	Multi         []shopping.ProductSummary
	Single        []shopping.ProductSummary
}

func (r SearchResult) Total() int { return len(r.Multi) + len(r.Single) }

// SourceGeo is the geolocation reported with one collection. The single
// source side falls back to Geo when its reply carries none.
func (r SearchResult) SourceGeo(single bool) shopping.Geolocation {
	if single && (r.SingleGeo.Name != "" || r.SingleGeo.Code != "") {
		return r.SingleGeo
	}
	return r.Geo
}

type DetailResult struct {
	Detail shopping.ProductDetail
	Geo    shopping.Geolocation
}

type SearchService struct {
	shop shopping.Service
	log  *slog.Logger
}

func NewSearchService(shop shopping.Service, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{shop: shop, log: logger}
}

func (s *SearchService) Geolocations(ctx context.Context) (shopping.Catalog, error) {
	cat, err := s.shop.ListGeolocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list geolocations: %w", err)
	}
	return cat, nil
}

// Search runs the multi-source and single-source searches concurrently and
// waits for both. Either failing fails the whole search.
func (s *SearchService) Search(ctx context.Context, qc QueryContext) (SearchResult, error) {
	qc, err := qc.Validate()
	if err != nil {
		return SearchResult{}, err
	}

	var (
		wg                  sync.WaitGroup
		multi, single       shopping.SearchPage
		multiErr, singleErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		multi, multiErr = s.shop.Search(ctx, qc.Query, qc.Geolocation)
	}()
	go func() {
		defer wg.Done()
		single, singleErr = s.shop.SearchSingleSource(ctx, qc.Query, qc.Geolocation)
	}()
	wg.Wait()

	if multiErr != nil || singleErr != nil {
		se := &SearchError{
			Message:   pickMessage("Search failed", multiErr, singleErr),
			MultiErr:  multiErr,
			SingleErr: singleErr,
		}
		s.log.Warn("search failed",
			"query", qc.Query,
			"geolocation", qc.Geolocation,
			"multi_err", multiErr,
			"single_err", singleErr,
		)
		return SearchResult{}, se
	}

	res := SearchResult{
		Query:         qc.Query,
		OriginalQuery: multi.OriginalQuery,
		Geo:           multi.GeoInfo,
		SingleGeo:     single.GeoInfo,
		Multi:         multi.Results,
		Single:        single.Results,
	}
	if res.OriginalQuery == "" {
		res.OriginalQuery = qc.Query
	}
	if res.Geo.Code == "" {
		res.Geo.Code = qc.Geolocation
	}
	if res.SingleGeo.Name != "" && res.SingleGeo.Code == "" {
		res.SingleGeo.Code = qc.Geolocation
	}

	s.log.Info("search done",
		"query", qc.Query,
		"geolocation", qc.Geolocation,
		"multi", len(res.Multi),
		"single", len(res.Single),
	)
	return res, nil
}

// Translate validates before any request is issued.
func (s *SearchService) Translate(ctx context.Context, qc QueryContext) (shopping.Translation, error) {
	qc, err := qc.Validate()
	if err != nil {
		return shopping.Translation{}, err
	}

	tr, err := s.shop.Translate(ctx, qc.Query, qc.Geolocation)
	if err != nil {
		return shopping.Translation{}, &ActionError{Message: pickMessage("Translation failed", err), Err: err}
	}
	return tr, nil
}

func (s *SearchService) FetchDetail(ctx context.Context, productID, geolocation string) (DetailResult, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return DetailResult{}, ErrProductIDRequired
	}

	page, err := s.shop.ProductDetails(ctx, productID, geolocation)
	if err != nil {
		return DetailResult{}, &ActionError{Message: pickMessage("Failed to load product details", err), Err: err}
	}
	if page.ProductDetails.ProductID == "" {
		page.ProductDetails.ProductID = responses.Text(productID)
	}
	return DetailResult{Detail: page.ProductDetails, Geo: page.GeoInfo}, nil
}

// ActionError carries the text shown to the user for a failed action.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

// pickMessage returns the message of the first failed call in errs: the
// server supplied text when there is one, the transport error otherwise.
func pickMessage(fallback string, errs ...error) string {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if msg, ok := endpoints.Message(err); ok {
			return msg
		}
		var apiErr *endpoints.APIError
		if !errors.As(err, &apiErr) {
			return err.Error()
		}
	}
	return fallback
}
