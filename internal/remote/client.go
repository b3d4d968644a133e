package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quarry/internal/api"
	"quarry/internal/logging"
	"quarry/internal/services"
)

const (
	defaultUserAgent   = "quarry/dev"
	defaultHTTPTimeout = 30 * time.Second
	maxResponseBytes   = 64 << 20

	headerRequestID = "X-Request-ID"
)

// Config describes the client configuration.
type Config struct {
	BaseURL    string
	Token      string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client wraps the curation service REST API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *slog.Logger

	mu    sync.RWMutex
	token string
}

// New creates a Client. An empty base URL is accepted; requests against it
// fail as transport errors.
func New(cfg Config) *Client {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		userAgent: userAgent,
		http:      httpClient,
		logger:    logging.NewComponentLogger(cfg.Logger, "remote"),
		token:     strings.TrimSpace(cfg.Token),
	}
}

// BaseURL returns the resolved service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken replaces the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

type response struct {
	status      int
	contentType string
	body        []byte
}

func (c *Client) jsonRequest(method, path string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, services.Wrap(services.ErrValidation, "remote", method+" "+path, "encode request body", err)
	}
	return request{method: method, path: path, body: bytes.NewReader(data), contentType: "application/json"}, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	target := c.baseURL + path
	if encoded := encodeQuery(query); encoded != "" {
		target += "?" + encoded
	}
	return target
}

// encodeQuery drops parameters whose values are all empty.
func encodeQuery(query url.Values) string {
	if len(query) == 0 {
		return ""
	}
	clean := url.Values{}
	for key, values := range query {
		for _, v := range values {
			if v != "" {
				clean.Add(key, v)
			}
		}
	}
	return clean.Encode()
}

func (c *Client) do(ctx context.Context, req request) (response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), req.body)
	if err != nil {
		return response{}, &Error{Method: req.method, Path: req.path, Err: err}
	}
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(headerRequestID, requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token := c.currentToken(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		// A cancel or deadline on the caller's context is returned as is.
		if ctx.Err() != nil {
			return response{}, ctx.Err()
		}
		c.logger.Debug("request failed",
			logging.String("method", req.method),
			logging.String("path", req.path),
			logging.String(logging.FieldCorrelationID, requestID),
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err),
		)
		return response{}, &Error{Method: req.method, Path: req.path, Err: err}
	}
	defer resp.Body.Close()

	out := response{status: resp.StatusCode, contentType: resp.Header.Get("Content-Type")}
	c.logger.Debug("request completed",
		logging.String("method", req.method),
		logging.String("path", req.path),
		logging.Int("status", resp.StatusCode),
		logging.String(logging.FieldCorrelationID, requestID),
		logging.Duration("elapsed", time.Since(started)),
	)
	if resp.StatusCode == http.StatusNoContent {
		return out, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return response{}, ctx.Err()
		}
		return response{}, &Error{Method: req.method, Path: req.path, Err: fmt.Errorf("read body: %w", err)}
	}
	out.body = body
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response{}, &Error{
			Method:  req.method,
			Path:    req.path,
			Status:  resp.StatusCode,
			Payload: decodePayload(out.contentType, body),
			Body:    string(body),
		}
	}
	return out, nil
}

// decodePayload parses JSON bodies when the response declares JSON and
// returns raw text otherwise.
func decodePayload(contentType string, body []byte) any {
	if api.IsJSONContentType(contentType) && len(bytes.TrimSpace(body)) > 0 {
		var payload any
		if err := json.Unmarshal(body, &payload); err == nil {
			return payload
		}
	}
	return string(body)
}

func call[T any](ctx context.Context, c *Client, req request, envelope string) (T, error) {
	var zero T
	resp, err := c.do(ctx, req)
	if err != nil {
		return zero, err
	}
	out, err := api.Unwrap[T](resp.body, envelope)
	if err != nil {
		return zero, services.Wrap(services.ErrRemote, "remote", req.method+" "+req.path, "decode response", err)
	}
	return out, nil
}
