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

	"seclob/internal/config"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

const maxResponseBytes = 512 * 1024

// TokenSource supplies the current bearer token, empty when signed out.
type TokenSource interface {
	Token() string
}

// Client calls the storefront REST backend. Every authenticated call reads
// the bearer token from the token source; any 401 response triggers the
// unauthorized hook before the error is returned.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	// onUnauthorized is invoked once per 401 response. Wired to the global
	// session teardown.
	onUnauthorized func()
}

type Option func(*Client)

// WithTokenSource attaches the session's token to outgoing requests.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook registers the global 401 side effect.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithHTTPClient overrides the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		rc := retryablehttp.NewClient()
		rc.RetryMax = 2
		rc.Logger = nil
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 20 * time.Second
		}
		rc.HTTPClient.Timeout = timeout
		c.httpClient = rc.StandardClient()
	}

	return c, nil
}

// do issues one request and returns the response body. Non-2xx statuses
// come back as *StatusError with the body attached for diagnostics.
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, payload any) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parse %s URL: %w", operation, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", operation, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", operation, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", operation, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		slog.WarnContext(ctx, "backend rejected credentials, clearing session", "operation", operation)
		c.onUnauthorized()
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	return respBody, nil
}

func (c *Client) get(ctx context.Context, operation, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, operation, http.MethodGet, path, query, nil)
}
