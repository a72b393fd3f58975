package usecases

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsearch/internal/apis/shopping"
	"shopsearch/internal/apis/shopping/endpoints"
	"shopsearch/internal/logger"
)

func TestQueryContext_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      QueryContext
		wantErr error
	}{
		{name: "ok", in: QueryContext{Query: " phone ", Geolocation: "us"}},
		{name: "empty query", in: QueryContext{Query: "", Geolocation: "us"}, wantErr: ErrQueryRequired},
		{name: "blank query", in: QueryContext{Query: "   ", Geolocation: "us"}, wantErr: ErrQueryRequired},
		{name: "no country", in: QueryContext{Query: "phone"}, wantErr: ErrCountryRequired},
		{name: "query checked first", in: QueryContext{}, wantErr: ErrQueryRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "phone", got.Query)
		})
	}
}

func TestSearch_JoinsBothSources(t *testing.T) {
	shop := &fakeShop{
		search: func(q, geo string) (shopping.SearchPage, error) {
			assert.Equal(t, "phone", q)
			assert.Equal(t, "us", geo)
			return shopping.SearchPage{
				Results:       hits("a", "b"),
				OriginalQuery: "phone",
				GeoInfo:       shopping.Geolocation{Name: "United States", Flag: "🇺🇸"},
			}, nil
		},
		searchSingle: func(string, string) (shopping.SearchPage, error) {
			return shopping.SearchPage{Results: hits("c")}, nil
		},
	}
	svc := NewSearchService(shop, logger.Discard())

	res, err := svc.Search(context.Background(), QueryContext{Query: "  phone", Geolocation: "us"})
	require.NoError(t, err)

	assert.Equal(t, "phone", res.Query)
	assert.Equal(t, "phone", res.OriginalQuery)
	assert.Equal(t, "us", res.Geo.Code)
	assert.Equal(t, "United States", res.Geo.Name)
	assert.Len(t, res.Multi, 2)
	assert.Len(t, res.Single, 1)
	assert.Equal(t, 3, res.Total())
	assert.ElementsMatch(t, []string{"search", "search-single-source"}, shop.Calls())
}

func TestSearch_SingleSourceGeo(t *testing.T) {
	shop := &fakeShop{
		search: func(string, string) (shopping.SearchPage, error) {
			return shopping.SearchPage{Results: hits("a"), GeoInfo: shopping.Geolocation{Name: "United States"}}, nil
		},
		searchSingle: func(string, string) (shopping.SearchPage, error) {
			return shopping.SearchPage{Results: hits("b"), GeoInfo: shopping.Geolocation{Name: "Canada"}}, nil
		},
	}
	svc := NewSearchService(shop, logger.Discard())

	res, err := svc.Search(context.Background(), QueryContext{Query: "phone", Geolocation: "us"})
	require.NoError(t, err)
	assert.Equal(t, "United States", res.SourceGeo(false).Name)
	assert.Equal(t, "Canada", res.SourceGeo(true).Name)
	assert.Equal(t, "us", res.SourceGeo(true).Code)

	noGeo := SearchResult{Geo: shopping.Geolocation{Code: "us", Name: "United States"}}
	assert.Equal(t, noGeo.Geo, noGeo.SourceGeo(true))
}

func TestSearch_RunsConcurrently(t *testing.T) {
	// Each side waits for the other to start; a sequential join would deadlock.
	multiStarted := make(chan struct{})
	singleStarted := make(chan struct{})

	shop := &fakeShop{
		search: func(string, string) (shopping.SearchPage, error) {
			close(multiStarted)
			select {
			case <-singleStarted:
			case <-time.After(2 * time.Second):
				return shopping.SearchPage{}, errors.New("single never started")
			}
			return shopping.SearchPage{}, nil
		},
		searchSingle: func(string, string) (shopping.SearchPage, error) {
			close(singleStarted)
			select {
			case <-multiStarted:
			case <-time.After(2 * time.Second):
				return shopping.SearchPage{}, errors.New("multi never started")
			}
			return shopping.SearchPage{}, nil
		},
	}

	_, err := NewSearchService(shop, logger.Discard()).Search(context.Background(), QueryContext{Query: "q", Geolocation: "us"})
	require.NoError(t, err)
}

func TestSearch_Failures(t *testing.T) {
	serverErr := func(msg string) error { return &endpoints.APIError{Status: http.StatusOK, Message: msg} }
	ok := func(string, string) (shopping.SearchPage, error) { return shopping.SearchPage{Results: hits("x")}, nil }

	tests := []struct {
		name     string
		multi    func(string, string) (shopping.SearchPage, error)
		single   func(string, string) (shopping.SearchPage, error)
		wantText string
	}{
		{
			name:     "multi message preferred",
			multi:    func(string, string) (shopping.SearchPage, error) { return shopping.SearchPage{}, serverErr("multi down") },
			single:   func(string, string) (shopping.SearchPage, error) { return shopping.SearchPage{}, serverErr("single down") },
			wantText: "multi down",
		},
		{
			name:     "single message when multi ok",
			multi:    ok,
			single:   func(string, string) (shopping.SearchPage, error) { return shopping.SearchPage{}, serverErr("single down") },
			wantText: "single down",
		},
		{
			name:     "single message when multi has none",
			multi:    func(string, string) (shopping.SearchPage, error) { return shopping.SearchPage{}, serverErr("") },
			single:   func(string, string) (shopping.SearchPage, error) { return shopping.SearchPage{}, serverErr("single down") },
			wantText: "single down",
		},
		{
			name:     "generic fallback",
			multi:    func(string, string) (shopping.SearchPage, error) { return shopping.SearchPage{}, serverErr("") },
			single:   ok,
			wantText: "Search failed",
		},
		{
			name:     "transport error text",
			multi:    func(string, string) (shopping.SearchPage, error) { return shopping.SearchPage{}, errors.New("dial tcp: refused") },
			single:   ok,
			wantText: "dial tcp: refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shop := &fakeShop{search: tt.multi, searchSingle: tt.single}
			res, err := NewSearchService(shop, logger.Discard()).Search(context.Background(), QueryContext{Query: "q", Geolocation: "us"})

			var se *SearchError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantText, se.Message)
			assert.Zero(t, res.Total())
		})
	}
}

func TestSearch_ValidationMakesNoCalls(t *testing.T) {
	shop := &fakeShop{}
	svc := NewSearchService(shop, logger.Discard())

	_, err := svc.Search(context.Background(), QueryContext{Query: " ", Geolocation: "us"})
	assert.ErrorIs(t, err, ErrQueryRequired)

	_, err = svc.Translate(context.Background(), QueryContext{Query: "phone"})
	assert.ErrorIs(t, err, ErrCountryRequired)

	_, err = svc.FetchDetail(context.Background(), "  ", "us")
	assert.ErrorIs(t, err, ErrProductIDRequired)

	assert.Empty(t, shop.Calls())
}

func TestTranslate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		shop := &fakeShop{translate: func(q, geo string) (shopping.Translation, error) {
			return shopping.Translation{OriginalQuery: q, TranslatedQuery: "Handy", TargetLanguage: "de"}, nil
		}}
		tr, err := NewSearchService(shop, logger.Discard()).Translate(context.Background(), QueryContext{Query: "phone", Geolocation: "de"})
		require.NoError(t, err)
		assert.Equal(t, "Handy", tr.TranslatedQuery)
	})

	t.Run("server message", func(t *testing.T) {
		shop := &fakeShop{translate: func(string, string) (shopping.Translation, error) {
			return shopping.Translation{}, &endpoints.APIError{Status: 500, Message: "no translator"}
		}}
		_, err := NewSearchService(shop, logger.Discard()).Translate(context.Background(), QueryContext{Query: "phone", Geolocation: "de"})

		var ae *ActionError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "no translator", ae.Message)
		msg, ok := endpoints.Message(err)
		assert.True(t, ok)
		assert.Equal(t, "no translator", msg)
	})
}

func TestFetchDetail(t *testing.T) {
	t.Run("fills missing product id", func(t *testing.T) {
		shop := &fakeShop{details: func(id, geo string) (shopping.DetailPage, error) {
			assert.Equal(t, "p1", id)
			assert.Equal(t, "us", geo)
			return shopping.DetailPage{
				ProductDetails: shopping.ProductDetail{Title: "Lamp"},
				GeoInfo:        shopping.Geolocation{Name: "United States"},
			}, nil
		}}
		res, err := NewSearchService(shop, logger.Discard()).FetchDetail(context.Background(), " p1 ", "us")
		require.NoError(t, err)
		assert.Equal(t, "p1", res.Detail.ProductID.String())
		assert.Equal(t, "United States", res.Geo.Name)
	})

	t.Run("failure message", func(t *testing.T) {
		shop := &fakeShop{details: func(string, string) (shopping.DetailPage, error) {
			return shopping.DetailPage{}, &endpoints.APIError{Status: 404}
		}}
		_, err := NewSearchService(shop, logger.Discard()).FetchDetail(context.Background(), "p1", "us")

		var ae *ActionError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "Failed to load product details", ae.Message)
	})
}

func TestGeolocations_WrapsError(t *testing.T) {
	shop := &fakeShop{geolocations: func() (shopping.Catalog, error) { return nil, errors.New("boom") }}
	_, err := NewSearchService(shop, logger.Discard()).Geolocations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list geolocations")
}
