// Package transport provides the HTTP client used to fetch source
// descriptions and binary resources. It is the only place the pipeline
// touches the network; everything downstream is synchronous tree work.
package transport

import (
	"context"
	"io"
	"net/http"

	"github.com/specmap/specmap/pkg/constants"
	"github.com/specmap/specmap/pkg/errors"
	"github.com/specmap/specmap/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client fetches remote resources with a bounded response size. A failed
// fetch is reported, not retried; retry policy belongs to the caller.
type Client struct {
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent: "specmap",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves a resource body. Non-2xx statuses are errors.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, _, err := c.fetch(ctx, url)
	return body, err
}

// FetchBinary retrieves a resource body along with its content type. The
// Content-Type header wins when present; otherwise the type is sniffed from
// the leading bytes.
func (c *Client) FetchBinary(ctx context.Context, url string) (body []byte, contentType string, err error) {
	body, contentType, err = c.fetch(ctx, url)
	if err != nil {
		return nil, "", err
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(body)
	}
	return body, contentType, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, string, error) {
	logging.Ctx(ctx).Debug().Str("url", url).Msg("fetching")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &errors.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &errors.FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &errors.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseSize))
	if err != nil {
		return nil, "", &errors.FetchError{URL: url, Err: err}
	}
	return body, resp.Header.Get("Content-Type"), nil
}
