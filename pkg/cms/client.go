package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/folio-content/pkg/httpclient"
)

const (
	apiPrefix      = "/api"
	defaultTimeout = 15 * time.Second
)

// Logger defines the logging surface the client relies on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}

// Client talks to the content API rooted at a single backend origin.
type Client struct {
	origin  string
	base    *url.URL
	http    httpclient.Client
	headers map[string]string
	log     Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport.
func WithHTTPClient(h httpclient.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithAPIToken sends the token as a bearer credential on every request.
func WithAPIToken(token string) Option {
	return func(c *Client) {
		if token = strings.TrimSpace(token); token != "" {
			c.headers["Authorization"] = "Bearer " + token
		}
	}
}

// WithHeader adds a static request header.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key != "" && value != "" {
			c.headers[key] = value
		}
	}
}

// WithLogger enables per-request debug logging.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New builds a client for the backend at origin, e.g. "http://localhost:1337".
func New(origin string, opts ...Option) (*Client, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return nil, errors.New("cms origin is empty")
	}
	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse cms origin: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("cms origin %q must be an absolute URL", origin)
	}

	c := &Client{
		origin:  origin,
		base:    base,
		headers: map[string]string{"Accept": "application/json"},
		log:     noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(defaultTimeout)
	}
	return c, nil
}

// Origin returns the backend origin the client was built with.
func (c *Client) Origin() string { return c.origin }

// endpoint resolves /api<path> against the origin and attaches params.
func (c *Client) endpoint(path string, params map[string]string) string {
	u := c.base.ResolveReference(&url.URL{Path: apiPrefix + path})
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch issues one GET for path and decodes the envelope. It is a function
// rather than a method because methods cannot take type parameters.
func Fetch[T any](ctx context.Context, c *Client, path string, params map[string]string) (*Envelope[T], error) {
	if c == nil {
		return nil, errors.New("cms client is nil")
	}
	target := c.endpoint(path, params)

	start := time.Now()
	resp, err := c.http.Get(ctx, target, c.headers)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	c.log.DebugObj("cms request", "cms_request", map[string]any{
		"path":       path,
		"url":        target,
		"status":     resp.StatusCode(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &RequestError{Path: path, StatusCode: code, Status: resp.Status()}
	}

	var env Envelope[T]
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &env, nil
}
