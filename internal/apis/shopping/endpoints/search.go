package endpoints

import (
	"context"
	"net/http"

	"shopsearch/internal/apis/shopping/responses"
)

type searchResp struct {
	envelope
	responses.SearchPage
}

// Search queries the multi-source (aggregated sellers) index.
func (c *Client) Search(ctx context.Context, query, geolocation string) (responses.SearchPage, error) {
	return c.search(ctx, "/api/search", query, geolocation)
}

// SearchSingleSource queries listings tied to one seller.
func (c *Client) SearchSingleSource(ctx context.Context, query, geolocation string) (responses.SearchPage, error) {
	return c.search(ctx, "/api/search-single-source", query, geolocation)
}

func (c *Client) search(ctx context.Context, path, query, geolocation string) (responses.SearchPage, error) {
	var out searchResp
	status, err := c.doJSON(ctx, http.MethodPost, path, queryReq{Query: query, Geolocation: geolocation}, &out)
	if err != nil {
		return responses.SearchPage{}, err
	}
	if err := out.check(status, ""); err != nil {
		return responses.SearchPage{}, err
	}
	if out.Results == nil {
		out.Results = []responses.ProductSummary{}
	}
	return out.SearchPage, nil
}
