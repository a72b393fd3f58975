package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsearch/internal/apis/shopping/responses"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.Client(), srv.URL+"/", func(r *http.Request) {
		r.Header.Set("User-Agent", "test")
	})
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
	return m
}

func TestSearch_SendsQueryAndDecodesPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "test", r.Header.Get("User-Agent"))

		body := decodeBody(t, r)
		assert.Equal(t, "phone", body["query"])
		assert.Equal(t, "us", body["geolocation"])

		_, _ = io.WriteString(w, `{
			"success": true,
			"originalQuery": "phone",
			"geoInfo": {"name": "United States", "flag": "🇺🇸"},
			"results": [{"title": "A"}, {"title": "B"}]
		}`)
	})

	page, err := c.Search(context.Background(), "phone", "us")
	require.NoError(t, err)
	assert.Equal(t, "phone", page.OriginalQuery)
	assert.Equal(t, "United States", page.GeoInfo.Name)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "B", page.Results[1].Title.String())
}

func TestSearchSingleSource_NilResultsBecomeEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search-single-source", r.URL.Path)
		_, _ = io.WriteString(w, `{"success": true}`)
	})

	page, err := c.SearchSingleSource(context.Background(), "phone", "us")
	require.NoError(t, err)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestEnvelope_SuccessFalseCarriesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success": false, "error": "quota exceeded"}`)
	})

	_, err := c.Search(context.Background(), "phone", "us")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.Status)

	msg, ok := Message(err)
	assert.True(t, ok)
	assert.Equal(t, "quota exceeded", msg)
}

func TestEnvelope_SuccessFalseWithoutMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success": false}`)
	})

	err := c.ClearExcelData(context.Background())
	require.Error(t, err)
	_, ok := Message(err)
	assert.False(t, ok)
}

func TestNon2xx_ParsesErrorBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string error", body: `{"success":false,"error":"bad geolocation"}`, want: "bad geolocation"},
		{name: "object error", body: `{"error":{"message":"upstream down","code":"E1"}}`, want: "upstream down"},
		{name: "message field", body: `{"message":"nope"}`, want: "nope"},
		{name: "not json", body: `<html>502</html>`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Translate(context.Background(), "phone", "de")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadGateway, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Contains(t, apiErr.Error(), "status=502")
		})
	}
}

func TestBadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success": tru`)
	})

	_, err := c.ProductDetails(context.Background(), "p1", "us")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad json")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestListGeolocations_FillsCodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/geolocations", r.URL.Path)
		_, _ = io.WriteString(w, `{"us":{"name":"United States","flag":"🇺🇸"},"jp":{"name":"Japan","flag":"🇯🇵"}}`)
	})

	cat, err := c.ListGeolocations(context.Background())
	require.NoError(t, err)
	require.Len(t, cat, 2)
	assert.Equal(t, "jp", cat["jp"].Code)
}

func TestProductDetails_RequestShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "p1", body["productId"])
		assert.Equal(t, "us", body["geolocation"])
		_, _ = io.WriteString(w, `{
			"success": true,
			"productDetails": {"title":"X","sellers_results":{"online_sellers":[{"name":"A"}]}},
			"geoInfo": {"name":"United States"}
		}`)
	})

	page, err := c.ProductDetails(context.Background(), "p1", "us")
	require.NoError(t, err)
	assert.Equal(t, "X", page.ProductDetails.Title.String())
	require.Len(t, page.ProductDetails.Sellers(), 1)
	assert.Equal(t, "United States", page.GeoInfo.Name)
}

func TestSaveMultipleToExcel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/save-multiple-to-excel", r.URL.Path)

		var body struct {
			Products []responses.SpreadsheetRow `json:"products"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Products, 2)
		assert.Equal(t, 2, body.Products[1].SellerIndex)

		_, _ = io.WriteString(w, `{"success":true,"totalSaved":7}`)
	})

	total, err := c.SaveMultipleToExcel(context.Background(), []responses.SpreadsheetRow{
		{SellerName: "A", SellerIndex: 1},
		{SellerName: "B", SellerIndex: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
}

func TestSaveToExcel_ForwardsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/save-to-excel", r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, "Lamp", body["title"])
		assert.Contains(t, body, "geolocation")
		_, _ = io.WriteString(w, `{"success":true,"totalSaved":3}`)
	})

	total, err := c.SaveToExcel(context.Background(), map[string]any{
		"title":       "Lamp",
		"geolocation": responses.Geolocation{Code: "us", Name: "United States"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestExcelDataCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/excel-data-count", r.URL.Path)
		_, _ = io.WriteString(w, `{"count":12}`)
	})

	n, err := c.ExcelDataCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestExportExcel_Streams(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 5*1024*1024)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/export-excel", r.URL.Path)
		_, _ = w.Write(payload)
	})

	var buf bytes.Buffer
	n, err := c.ExportExcel(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, len(payload), buf.Len())
}

func TestExportExcel_Failure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"no data"}`)
	})

	var buf bytes.Buffer
	_, err := c.ExportExcel(context.Background(), &buf)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "no data", apiErr.Message)
	assert.Zero(t, buf.Len())
}

func TestClearExcelData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/excel-data", r.URL.Path)
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	require.NoError(t, c.ClearExcelData(context.Background()))
}

func TestNewReq_EmptyBaseURL(t *testing.T) {
	c := New(http.DefaultClient, "", nil)
	_, err := c.Search(context.Background(), "q", "us")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BaseURL is empty")
}
