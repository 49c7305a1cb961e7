package http

import (
	"net/http"
	"time"
)

// Doer is satisfied by *http.Client and by Client itself.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient returns a client with the given overall request timeout.
// A zero timeout means the caller's context alone bounds the call.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithUserAgent sets the User-Agent header on every outgoing request.
func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}
