package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"quarry/internal/api"
)

func quotePath(id string) string {
	return "/api/quotes/" + url.PathEscape(id)
}

// CreateQuote adds a hand-picked quote.
func (c *Client) CreateQuote(ctx context.Context, in api.NewQuote) (api.Quote, error) {
	req, err := c.jsonRequest(http.MethodPost, "/api/quotes", in)
	if err != nil {
		return api.Quote{}, err
	}
	return call[api.Quote](ctx, c, req, "")
}

// ListQuotes returns quotes matching the server-side filters. Empty filters
// are omitted; minConfidence is sent only when positive.
func (c *Client) ListQuotes(ctx context.Context, q api.QuoteQuery) ([]api.Quote, error) {
	query := url.Values{}
	query.Set("assetId", q.AssetID)
	query.Set("status", q.Status)
	if q.MinConfidence > 0 {
		query.Set("minConfidence", strconv.FormatFloat(q.MinConfidence, 'f', -1, 64))
	}
	return call[[]api.Quote](ctx, c, request{method: http.MethodGet, path: "/api/quotes", query: query}, api.EnvelopeQuotes)
}

// ExtractQuotes asks the service to propose quote candidates.
func (c *Client) ExtractQuotes(ctx context.Context, in api.ExtractRequest) ([]api.Quote, error) {
	req, err := c.jsonRequest(http.MethodPost, "/api/quotes/extract", in)
	if err != nil {
		return nil, err
	}
	return call[[]api.Quote](ctx, c, req, api.EnvelopeQuotes)
}

// GetQuote returns one quote.
func (c *Client) GetQuote(ctx context.Context, id string) (api.Quote, error) {
	return call[api.Quote](ctx, c, request{method: http.MethodGet, path: quotePath(id)}, "")
}

// UpdateQuote applies a partial update and returns the full server copy.
func (c *Client) UpdateQuote(ctx context.Context, id string, patch api.QuotePatch) (api.Quote, error) {
	req, err := c.jsonRequest(http.MethodPatch, quotePath(id), patch)
	if err != nil {
		return api.Quote{}, err
	}
	return call[api.Quote](ctx, c, req, "")
}

// DeleteQuote removes a quote. A 204 response is success without a body.
func (c *Client) DeleteQuote(ctx context.Context, id string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: quotePath(id)})
	return err
}
