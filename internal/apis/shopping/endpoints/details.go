package endpoints

import (
	"context"
	"net/http"

	"shopsearch/internal/apis/shopping/responses"
)

type detailsReq struct {
	ProductID   string `json:"productId"`
	Geolocation string `json:"geolocation"`
}

type detailsResp struct {
	envelope
	responses.DetailPage
}

func (c *Client) ProductDetails(ctx context.Context, productID, geolocation string) (responses.DetailPage, error) {
	var out detailsResp
	status, err := c.doJSON(ctx, http.MethodPost, "/api/product-details", detailsReq{ProductID: productID, Geolocation: geolocation}, &out)
	if err != nil {
		return responses.DetailPage{}, err
	}
	if err := out.check(status, ""); err != nil {
		return responses.DetailPage{}, err
	}
	return out.DetailPage, nil
}
