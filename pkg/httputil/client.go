package httputil

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/electoral/pkg/cache"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/observability"
)

// DefaultTimeout bounds a single request attempt.
const DefaultTimeout = 30 * time.Second

// Client fetches data files over HTTP with caching and retry.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	namespace string
	ttl       time.Duration
	headers   map[string]string
	backoff   Backoff
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache stores response bodies in ch under keys from keyer.
func WithCache(ch cache.Cache, keyer cache.Keyer) Option {
	return func(c *Client) { c.cache, c.keyer = ch, keyer }
}

// WithNamespace sets the HTTP cache namespace (typically the base URL).
func WithNamespace(ns string) Option {
	return func(c *Client) { c.namespace = ns }
}

// WithTTL sets how long response bodies stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// WithHeaders sets headers sent with every request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) { c.headers = h }
}

// WithBackoff replaces [DefaultBackoff].
func WithBackoff(b Backoff) Option {
	return func(c *Client) { c.backoff = b }
}

// NewClient creates a Client. Without WithCache, nothing is cached.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		cache:   cache.NewNullCache(),
		keyer:   cache.NewDefaultKeyer(),
		ttl:     cache.TTLHTTP,
		backoff: DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the body at rawURL. Unless refresh is set a cached body is
// returned without touching the network. Network failures, 429 and 5xx
// responses are retried with the client's backoff, honoring Retry-After.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	return c.FetchValid(ctx, rawURL, refresh, nil)
}

// FetchValid is Fetch with a check run on every body before it is returned.
// Only bodies that pass are cached; a cached body that fails is evicted and
// fetched again, and a fresh body that fails is returned with valid's error.
func (c *Client) FetchValid(ctx context.Context, rawURL string, refresh bool, valid func([]byte) error) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	if valid == nil {
		valid = func([]byte) error { return nil }
	}
	key := c.keyer.HTTPKey(c.namespace, rawURL)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if valid(data) == nil {
				return data, nil
			}
			_ = c.cache.Delete(ctx, key)
		}
	}

	var body []byte
	err := c.backoff.Do(ctx, func() error {
		b, err := c.get(ctx, rawURL)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := valid(body); err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, body, c.ttl)
	return body, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad request URL")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "fetch %s", rawURL)
		}
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		var re *RetryableError
		if stderrors.As(err, &re) {
			re.After = retryAfter(resp.Header)
		}
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", rawURL)}
	}
	return body, nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s not found", rawURL)
	case code >= 500 || code == http.StatusTooManyRequests:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "%s: status %d", rawURL, code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", rawURL, code)
	}
}

func hostPath(u *url.URL) (string, string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
