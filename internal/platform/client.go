package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/evolvedu/internal/log"
	"github.com/felixgeelhaar/evolvedu/internal/notify"
)

const (
	// DefaultTimeout bounds a whole request including reading the body.
	DefaultTimeout = 30 * time.Second

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20

	requestIDHeader = "X-Request-ID"
)

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token() (string, bool)
}

// TokenStore is the part of the session store the gateway depends on:
// it reads the token and clears the session when the backend rejects it.
type TokenStore interface {
	TokenSource
	Clear() error
}

// SessionExpiredFunc is called after a 401 has cleared the session.
type SessionExpiredFunc func(ctx context.Context)

// Client is the EvolvEd API gateway. Every call to the backend goes through
// it: the request stage attaches the bearer token, and the response stage
// turns failures into notifications, session side effects and *APIError.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    TokenStore
	notifier   notify.Notifier
	onExpired  SessionExpiredFunc
	logger     *log.Logger
	timeout    time.Duration
	userAgent  string
	errorStage *ErrorStage
}

// Option configures a Client.
type Option func(*Client)

// WithSession sets the store the token is read from and cleared on 401.
func WithSession(store TokenStore) Option {
	return func(c *Client) {
		c.session = store
	}
}

// WithNotifier sets where failure messages are shown.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithSessionExpired sets the callback run after a 401 cleared the session.
func WithSessionExpired(fn SessionExpiredFunc) Option {
	return func(c *Client) {
		c.onExpired = fn
	}
}

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped
// by the request stage; the client itself is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a gateway for the API rooted at baseURL, which must be
// absolute. Use ResolveBaseURL to turn a relative API path into one.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:  base,
		notifier: notify.Discard,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = log.OrDefault(c.logger).With("component", "platform")

	var hc http.Client
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	hc.Transport = &AuthStage{
		Next:   hc.Transport,
		Tokens: c.session,
		Host:   base.Host,
	}
	c.httpClient = &hc

	c.errorStage = &ErrorStage{
		Session:   c.session,
		Notifier:  c.notifier,
		OnExpired: c.onExpired,
		Logger:    c.logger,
	}

	return c, nil
}

// ResolveBaseURL resolves apiURL against origin the way a browser resolves
// a relative URL against the page it was loaded from. An absolute apiURL is
// returned unchanged apart from a trailing slash.
func ResolveBaseURL(origin, apiURL string) (string, error) {
	if apiURL == "" {
		apiURL = "/api/"
	}
	ref, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("parse API URL %q: %w", apiURL, err)
	}
	if ref.IsAbs() {
		return withTrailingSlash(ref).String(), nil
	}

	base, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parse origin %q: %w", origin, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return "", fmt.Errorf("origin %q must be an absolute URL", origin)
	}
	return withTrailingSlash(base.ResolveReference(ref)).String(), nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", raw)
	}
	return withTrailingSlash(u), nil
}

func withTrailingSlash(u *url.URL) *url.URL {
	out := *u
	if !strings.HasSuffix(out.Path, "/") {
		out.Path += "/"
	}
	return &out
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get performs a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// Put sends in as JSON and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

// Patch sends in as JSON and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPatch, path, in, out)
}

// Delete performs a DELETE and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// resolve joins a request path onto the base URL. Paths are relative to the
// base; a leading slash does not escape it.
func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse request path %q: %w", path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, fmt.Errorf("request path %q must be relative to the base URL", path)
	}
	return c.baseURL.ResolveReference(ref), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// do sends one request through both stages. Any failure, with or without a
// response, is handed to the response stage exactly once.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	failure := Failure{
		Method:    method,
		Path:      path,
		RequestID: requestID,
	}

	c.logger.DebugContext(ctx, "api request", "method", method, "url", req.URL.String(), "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		failure.Err = err
		return c.errorStage.Handle(ctx, failure)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		failure.Status = resp.StatusCode
		failure.Body = data
		return c.errorStage.Handle(ctx, failure)
	}
	if readErr != nil {
		failure.Err = readErr
		return c.errorStage.Handle(ctx, failure)
	}

	c.logger.DebugContext(ctx, "api response", "status", resp.StatusCode, "request_id", requestID)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
