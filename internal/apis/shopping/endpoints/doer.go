package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// jsonLimit caps every JSON response body.
const jsonLimit = 4 * 1024 * 1024

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	Doer         Doer
	BaseURL      string
	ApplyHeaders func(*http.Request)
}

func New(doer Doer, baseURL string, applyHeaders func(*http.Request)) *Client {
	return &Client{
		Doer:         doer,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ApplyHeaders: applyHeaders,
	}
}

// envelope holds the fields every backend JSON response shares.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (e envelope) check(status int, fallback string) error {
	if e.Success {
		return nil
	}
	msg := e.Error
	if msg == "" {
		msg = fallback
	}
	return &APIError{Status: status, Message: msg}
}

func (c *Client) newReq(ctx context.Context, method, path string, body any) (*http.Request, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is empty")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if c.ApplyHeaders != nil {
		c.ApplyHeaders(req)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// doJSON sends the request and decodes a 2xx body into out. Other statuses
// become *APIError. The status code is returned for envelope checks.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) (int, error) {
	req, err := c.newReq(ctx, method, path, in)
	if err != nil {
		return 0, err
	}

	resp, err := c.Doer.Do(req)
	if err != nil {
		return 0, err
	}

	b, err := readLimited(resp, jsonLimit)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, ParseAPIError(resp.StatusCode, bytes.TrimSpace(b))
	}

	if err := json.Unmarshal(b, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%s: bad json body=%s", path, string(b[:min(len(b), 1024)]))
	}
	return resp.StatusCode, nil
}

func readLimited(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
