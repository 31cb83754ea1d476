package hydra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches and parses Hydra API documentation. The zero options
// produce an unauthenticated client with a ten second request timeout.
type Client struct {
	http        *http.Client
	timeout     time.Duration
	username    string
	password    string
	bearerToken string
}

// Option mutates the client configuration.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client for proxies or transport
// tuning.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout caps every request the client makes.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithBasicAuth sends HTTP basic credentials with every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithBearerToken sends a bearer token with every request. Takes
// precedence over basic credentials when both are set.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.bearerToken = token
	}
}

// NewClient builds a Hydra client.
func NewClient(options ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		timeout: 10 * time.Second,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// fetchJSONLD retrieves a JSON-LD document and returns its decoded body
// plus the response headers, which carry the documentation link on
// entrypoint responses.
func (c *Client) fetchJSONLD(ctx context.Context, url string) (map[string]any, http.Header, error) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("hydra: build request for %q: %w", url, err)
	}
	req.Header.Set("Accept", "application/ld+json, application/json")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	} else if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("hydra: fetch %q: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("hydra: fetch %q: unexpected status %s", url, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("hydra: read %q: %w", url, err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, nil, fmt.Errorf("hydra: decode %q: %w", url, err)
	}
	return body, resp.Header, nil
}
