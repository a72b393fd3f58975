package endpoints

import (
	"context"
	"net/http"

	"shopsearch/internal/apis/shopping/responses"
)

func (c *Client) ListGeolocations(ctx context.Context) (responses.Catalog, error) {
	var out map[string]responses.Geolocation
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/geolocations", nil, &out); err != nil {
		return nil, err
	}

	cat := make(responses.Catalog, len(out))
	for code, g := range out {
		g.Code = code
		cat[code] = g
	}
	return cat, nil
}
