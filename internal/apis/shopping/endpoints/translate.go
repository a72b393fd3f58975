package endpoints

import (
	"context"
	"net/http"

	"shopsearch/internal/apis/shopping/responses"
)

type queryReq struct {
	Query       string `json:"query"`
	Geolocation string `json:"geolocation"`
}

type translateResp struct {
	envelope
	responses.Translation
}

func (c *Client) Translate(ctx context.Context, query, geolocation string) (responses.Translation, error) {
	var out translateResp
	status, err := c.doJSON(ctx, http.MethodPost, "/api/translate", queryReq{Query: query, Geolocation: geolocation}, &out)
	if err != nil {
		return responses.Translation{}, err
	}
	if err := out.check(status, ""); err != nil {
		return responses.Translation{}, err
	}
	return out.Translation, nil
}
