// Package request provides the HTTP transport primitive used by the fetch
// pipeline: a single Get that reports outcome as {success, status, body}
// instead of treating non-2xx responses as Go errors.
package request

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds each request. Callers treat a timeout like any other
// transport failure.
const DefaultTimeout = 30 * time.Second

const defaultUserAgent = "go-dex (github.com/dexfetch/go-dex)"

// Response is the transport outcome. Success is true for 2xx statuses; a
// false Success with a nil error means the server answered with a non-success
// status and the caller decides whether that is fatal.
type Response struct {
	Success bool
	Status  int
	Body    []byte
}

type userAgentTransport struct {
	next  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.agent)
	}
	return t.next.RoundTrip(req)
}

// Client issues requests with a per-request timeout and a default User-Agent.
type Client struct {
	http    *http.Client
	timeout time.Duration
	agent   string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent sets the User-Agent injected into outgoing requests.
func WithUserAgent(agent string) Option {
	return func(c *Client) { c.agent = agent }
}

// New returns a Client ready for use. Whatever transport the options end up
// installing is wrapped with the User-Agent injector, so option order does
// not matter.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		timeout: DefaultTimeout,
		agent:   defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	next := c.http.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	c.http.Transport = &userAgentTransport{next: next, agent: c.agent}
	return c
}

// Get issues a GET to url. A non-nil error means the request never produced a
// response (dial failure, timeout, canceled context). Status problems are
// reported through Response.Success.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Success: res.StatusCode >= 200 && res.StatusCode < 300,
		Status:  res.StatusCode,
		Body:    body,
	}, nil
}
