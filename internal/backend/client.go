// Package backend is the HTTP client for the MicroMarket API. It owns the
// cross-cutting request behavior: bearer-token attachment on the way out and
// session-expiry detection on the way back.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenProvider supplies the current session token, or "" when logged out.
type TokenProvider interface {
	Token() string
}

// Client dispatches requests against the backend with a uniform base URL,
// credential attachment, and centralized 401 handling.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenProvider
	onUnauthorized func()
	logger         *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its transport is still
// wrapped with the bearer and tracing layers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUnauthorizedHook registers the callback invoked when the backend answers
// 401 to any request. The hook must be idempotent.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client for the given base URL. tokens may be nil for a client
// that never authenticates.
func New(baseURL string, tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: trimTrailingSlash(baseURL),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = otelhttp.NewTransport(&bearerTransport{tokens: c.tokens, next: base})
	return c
}

// bearerTransport attaches the current token as a bearer credential. When no
// token is held it strips any Authorization header so a stale credential never
// leaks into an unauthenticated request.
type bearerTransport struct {
	tokens TokenProvider
	next   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	token := ""
	if t.tokens != nil {
		token = t.tokens.Token()
	}
	if token != "" {
		clone.Header.Set("Authorization", "Bearer "+token)
	} else {
		clone.Header.Del("Authorization")
	}
	return t.next.RoundTrip(clone)
}

// do issues a single request and applies the response interceptor: a 401 from
// any endpoint fires the unauthorized hook and surfaces ErrSessionExpired
// instead of a regular API error. No retries, ever.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.logger.Warn("backend rejected session", slog.String("method", method), slog.String("path", path))
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, ErrSessionExpired
	}
	return resp, nil
}

// decode consumes resp as JSON into out (out may be nil for bodyless calls).
// Non-2xx responses become *Error carrying the backend's message verbatim.
func decode(resp *http.Response, out any) error {
	defer drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
