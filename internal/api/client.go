// Package api is the typed client for the lab portal backend. Every response is
// an Envelope; failures come back as *errors.StandardError values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"labportal/internal/common/config"
	"labportal/internal/common/errors"
	httpclient "labportal/internal/common/http"
	"labportal/internal/common/logger"
	"labportal/internal/common/metrics"
	"labportal/internal/common/observability"
	"labportal/internal/session"
)

type Client struct {
	baseURL  string
	http     httpclient.Doer
	sessions session.Store
	limiter  *rate.Limiter
	obs      *observability.Observability
	log      logger.Logger
}

type Option func(*Client)

// WithDoer replaces the HTTP transport, mostly for tests.
func WithDoer(d httpclient.Doer) Option {
	return func(c *Client) { c.http = d }
}

func WithObservability(o *observability.Observability) Option {
	return func(c *Client) { c.obs = o }
}

// New builds a client for cfg. sessions may be nil, in which case no
// Authorization header is ever sent.
func New(cfg config.APIConfig, sessions session.Store, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     httpclient.NewClient(config.GetDuration(cfg.Timeout)).WithUserAgent(cfg.UserAgent),
		sessions: sessions,
		log:      log,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	endpoint    string // metrics label
	method      string
	path        string
	body        io.Reader
	contentType string
}

func jsonRequest(endpoint, method, path string, payload interface{}) (request, error) {
	req := request{endpoint: endpoint, method: method, path: path}
	if payload == nil {
		return req, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("failed to marshal %s payload: %w", endpoint, err)
	}
	req.body = bytes.NewReader(data)
	req.contentType = "application/json"
	return req, nil
}

// call performs r and decodes the envelope data into T. A 204 yields the zero T.
func call[T any](ctx context.Context, c *Client, r request) (T, error) {
	var zero T

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return zero, errors.NewRemoteError(0, "", err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return zero, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	c.authorize(ctx, httpReq)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(ctx, r.endpoint, "transport_error", start)
		c.log.Warn("Backend request failed", map[string]interface{}{
			"endpoint": r.endpoint,
			"error":    err,
		})
		return zero, errors.NewRemoteError(0, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(ctx, r.endpoint, "transport_error", start)
		return zero, errors.NewRemoteError(resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.observe(ctx, r.endpoint, "unauthorized", start)
		c.dropSession(ctx)
		return zero, errors.NewUnauthorizedError(messageOf(body))
	}

	if resp.StatusCode == http.StatusNoContent {
		c.observe(ctx, r.endpoint, "ok", start)
		return zero, nil
	}

	var env Envelope[T]
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(ctx, r.endpoint, "http_error", start)
		msg := ""
		if decodeErr == nil {
			msg = env.Message
		}
		return zero, errors.NewRemoteError(resp.StatusCode, msg, nil)
	}
	if decodeErr != nil {
		c.observe(ctx, r.endpoint, "decode_error", start)
		return zero, errors.NewRemoteError(resp.StatusCode, "", fmt.Errorf("failed to decode response: %w", decodeErr))
	}

	data, err := env.Result()
	if err != nil {
		c.observe(ctx, r.endpoint, "envelope_error", start)
		return zero, err
	}
	c.observe(ctx, r.endpoint, "ok", start)
	return data, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.sessions == nil {
		return
	}
	s, err := c.sessions.Get(ctx)
	if err != nil {
		if !stderrors.Is(err, session.ErrNoSession) {
			c.log.Warn("Session lookup failed; sending request anonymously", map[string]interface{}{
				"error": err,
			})
		}
		return
	}
	req.Header.Set("Authorization", s.AuthorizationHeader())
}

func (c *Client) dropSession(ctx context.Context) {
	if c.sessions == nil {
		return
	}
	if err := c.sessions.Clear(ctx); err != nil {
		c.log.Error("Failed to clear session after 401", map[string]interface{}{"error": err})
		return
	}
	c.log.Info("Session cleared after 401 response", nil)
}

func (c *Client) observe(ctx context.Context, endpoint, outcome string, start time.Time) {
	d := time.Since(start)
	metrics.APIRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	c.obs.RecordCall(ctx, endpoint, outcome, d)
}

// messageOf pulls the envelope message out of an error body, if there is one.
func messageOf(body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	return env.Message
}
