package remote

import (
	"context"
	"net/http"

	"quarry/internal/api"
)

// Health checks service liveness.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/"})
	if err != nil {
		return nil, err
	}
	if payload, ok := decodePayload(resp.contentType, resp.body).(map[string]any); ok {
		return payload, nil
	}
	return map[string]any{"status": "ok"}, nil
}

// ServiceStatus returns the service summary counts.
func (c *Client) ServiceStatus(ctx context.Context) (api.ServiceStatus, error) {
	return call[api.ServiceStatus](ctx, c, request{method: http.MethodGet, path: "/api/status"}, "")
}

// Login exchanges credentials for a bearer token. The token is not applied
// to the client; callers decide whether to persist and use it.
func (c *Client) Login(ctx context.Context, creds api.LoginRequest) (api.LoginResponse, error) {
	req, err := c.jsonRequest(http.MethodPost, "/auth/login", creds)
	if err != nil {
		return api.LoginResponse{}, err
	}
	return call[api.LoginResponse](ctx, c, req, "")
}

// Me returns the user owning the current bearer token.
func (c *Client) Me(ctx context.Context) (api.User, error) {
	return call[api.User](ctx, c, request{method: http.MethodGet, path: "/auth/me"}, "")
}
