// Package api is the HTTP client for the FoodHub platform REST API.
//
// Every endpoint wraps its payload in the {data, message, success}
// envelope; list endpoints nest pagination under data.meta. The client
// decodes the envelope, injects the bearer credential, and converts
// transport and status failures into the shared error taxonomy.
package api

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
	"time"

	"github.com/foodhub-app/foodhub-console/internal/shared"
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

// Config holds client construction options.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the platform API.
type Client struct {
	http    *http.Client
	baseURL string
	token   TokenSource
	logger  *slog.Logger
}

// New constructs a Client. A nil token source means unauthenticated calls.
func New(cfg Config, token TokenSource, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if token == nil {
		token = func() string { return "" }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   token,
		logger:  logger,
	}
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Get issues a GET request and decodes the envelope's data into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return shared.Wrap(shared.KindNetworkFailure, "request failed", err)
	}
	defer func() { _ = res.Body.Close() }()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return shared.Wrap(shared.KindNetworkFailure, "read response", err)
	}

	if res.StatusCode >= 400 {
		return c.statusError(method, path, res.StatusCode, payload)
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return shared.Wrap(shared.KindServerError, "malformed response envelope", err)
	}
	if len(env.Data) == 0 {
		return shared.E(shared.KindServerError, "response envelope missing data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return shared.Wrap(shared.KindServerError, "decode response data", err)
	}
	return nil
}

func (c *Client) statusError(method, path string, status int, payload []byte) error {
	var env envelope
	_ = json.Unmarshal(payload, &env)
	message := env.Message

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if message == "" {
			message = http.StatusText(status)
		}
		return shared.E(shared.KindAuthorizationExpired, message)
	case status == http.StatusNotFound:
		return fmt.Errorf("api: %s %s: %w", method, path, shared.ErrNotFound)
	case status == http.StatusUnprocessableEntity:
		if message == "" {
			message = "validation failed"
		}
		return shared.Validation(message, env.Errors)
	case status >= 500:
		c.logger.Warn("upstream server error",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status))
		if message == "" {
			message = http.StatusText(status)
		}
		return shared.E(shared.KindServerError, message)
	default:
		if message == "" {
			message = http.StatusText(status)
		}
		return shared.E(shared.KindServerError, fmt.Sprintf("unexpected status %d: %s", status, message))
	}
}
