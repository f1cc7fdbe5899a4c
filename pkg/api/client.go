package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// CommandPath is the single endpoint accepting command and query envelopes.
const CommandPath = "/api"

// UserAgent is sent with every request.
const UserAgent = "polyteia-sdk-go"

// Envelope is the JSON body accepted by CommandPath. Exactly one of Command
// (mutations) or Query (reads) is set.
type Envelope struct {
	Command string `json:"command,omitempty"`
	Query   string `json:"query,omitempty"`
	Params  any    `json:"params"`
}

// Name returns the command or query name.
func (e Envelope) Name() string {
	if e.Command != "" {
		return e.Command
	}
	return e.Query
}

// Client performs authenticated round trips against the platform and
// validates every response. It holds no per-call state and is safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics records request counts and latencies into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracing wraps the HTTP transport with OpenTelemetry instrumentation.
// Apply it after WithHTTPClient.
func WithTracing() Option {
	return func(c *Client) {
		hc := *c.httpClient
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc.Transport = otelhttp.NewTransport(base)
		c.httpClient = &hc
	}
}

// NewClient creates a client for the platform rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the platform root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// URL joins path onto the base URL.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// NewRequest builds a request against path carrying the bearer token.
func (c *Client) NewRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// Command sends a command envelope and validates the response.
func (c *Client) Command(ctx context.Context, token, name string, params any, opts ValidateOptions) (Document, error) {
	return c.Send(ctx, token, CommandPath, Envelope{Command: name, Params: params}, opts)
}

// Query sends a query envelope and validates the response.
func (c *Client) Query(ctx context.Context, token, name string, params any, opts ValidateOptions) (Document, error) {
	return c.Send(ctx, token, CommandPath, Envelope{Query: name, Params: params}, opts)
}

// Send posts an envelope to path. Most callers use Command or Query; a few
// platform operations expect the envelope on a dedicated path.
func (c *Client) Send(ctx context.Context, token, path string, env Envelope, opts ValidateOptions) (Document, error) {
	if env.Params == nil {
		env.Params = map[string]any{}
	}
	zap.L().Debug("api envelope", zap.String("context", opts.context()), zap.String("name", env.Name()))
	return c.JSON(ctx, http.MethodPost, path, token, env, opts)
}

// JSON sends body encoded as JSON with the given method and validates the response.
func (c *Client) JSON(ctx context.Context, method, path, token string, body any, opts ValidateOptions) (Document, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Document{}, fmt.Errorf("%s: failed to marshal request body: %w", opts.context(), err)
	}
	req, err := c.NewRequest(ctx, method, path, token, bytes.NewReader(payload))
	if err != nil {
		return Document{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req, opts)
}

// Do executes req and validates the response.
func (c *Client) Do(req *http.Request, opts ValidateOptions) (Document, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(opts.context(), outcomeTransport, time.Since(start))
		zap.L().Error("api request failed", zap.String("context", opts.context()), zap.String("url", req.URL.Redacted()), zap.Error(err))
		return Document{}, fmt.Errorf("%s: %w", opts.context(), err)
	}

	doc, err := Validate(resp, opts)
	c.metrics.observe(opts.context(), outcomeOf(err), time.Since(start))
	if err != nil {
		zap.L().Debug("api response rejected", zap.String("context", opts.context()), zap.Int("status", resp.StatusCode), zap.Error(err))
		return Document{}, err
	}
	zap.L().Debug("api response", zap.String("context", opts.context()), zap.Int("status", resp.StatusCode))
	return doc, nil
}

// DoRaw executes req and returns the raw body when the status is expected.
// It is used for binary payloads that are not JSON.
func (c *Client) DoRaw(req *http.Request, opts ValidateOptions) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(opts.context(), outcomeTransport, time.Since(start))
		return nil, fmt.Errorf("%s: %w", opts.context(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.observe(opts.context(), outcomeTransport, time.Since(start))
		return nil, fmt.Errorf("%s: read response body: %w", opts.context(), err)
	}
	if !slices.Contains(opts.expected(), resp.StatusCode) {
		err = &StatusError{Context: opts.context(), StatusCode: resp.StatusCode, Expected: opts.expected(), Body: body}
		c.metrics.observe(opts.context(), outcomeOf(err), time.Since(start))
		return nil, err
	}
	c.metrics.observe(opts.context(), outcomeOK, time.Since(start))
	return body, nil
}
