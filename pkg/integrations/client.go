package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/postcard/pkg/buildinfo"
	"github.com/matzehuels/postcard/pkg/cache"
	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/httputil"
	"github.com/matzehuels/postcard/pkg/observability"
)

// maxBodySize caps response bodies; media larger than this is rejected.
const maxBodySize = 20 << 20

// Client provides shared HTTP functionality for upstream API clients.
// It handles caching, optional retries and common request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyPrefix string
	ttl       time.Duration
	headers   map[string]string
	attempts  int
}

// NewClient creates a Client with the given cache and default headers.
// Keys passed to [Client.GetBytes] are prefixed with keyPrefix and stored
// for ttl.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed, and nil for c to
// disable caching.
func NewClient(c cache.Cache, keyPrefix string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(DefaultTimeout),
		cache:     c,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		headers:   headers,
		attempts:  1,
	}
}

// WithTimeout replaces the HTTP client with one using timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.http = NewHTTPClient(timeout)
	return c
}

// WithHTTPClient sets the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithAttempts sets how often a transient failure is tried. Values below 1
// mean a single attempt.
func (c *Client) WithAttempts(n int) *Client {
	c.attempts = max(n, 1)
	return c
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers and retries when configured.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	return httputil.Retry(ctx, c.attempts, httputil.DefaultDelay, func() error {
		body, err := c.doRequest(ctx, url, headers)
		if err != nil {
			return err
		}
		defer body.Close()
		if err := json.NewDecoder(io.LimitReader(body, maxBodySize)).Decode(v); err != nil {
			return perrors.Wrap(perrors.ErrCodeNetwork, err, "decode response from %s", url)
		}
		return nil
	})
}

// GetBytes performs an HTTP GET without default headers and returns the raw
// body. Results are cached under key when key is non-empty.
func (c *Client) GetBytes(ctx context.Context, key, url string) ([]byte, error) {
	if key != "" {
		key = c.keyPrefix + key
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			return data, nil
		}
	}

	var data []byte
	err := httputil.Retry(ctx, c.attempts, httputil.DefaultDelay, func() error {
		body, err := c.do(ctx, url, nil, false)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err = io.ReadAll(io.LimitReader(body, maxBodySize))
		if err != nil {
			return &httputil.RetryableError{Err: perrors.Wrap(perrors.ErrCodeNetwork, err, "read %s", url)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if key != "" {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	return c.do(ctx, url, headers, true)
}

func (c *Client) do(ctx context.Context, url string, headers map[string]string, defaults bool) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if defaults {
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		code := perrors.ErrCodeNetwork
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			code = perrors.ErrCodeTimeout
		}
		return nil, &httputil.RetryableError{Err: perrors.Wrap(code, fmt.Errorf("%w: %v", ErrNetwork, err), "GET %s", req.URL.Host)}
	}

	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, resp.Header); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// checkStatus maps an HTTP status to an error carrying a [perrors.Code].
// Server errors and rate limiting are retryable.
func checkStatus(code int, header http.Header) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return perrors.Wrap(perrors.ErrCodeNotFound, ErrNotFound, "status %d", code)
	case code == http.StatusUnauthorized:
		return perrors.Wrap(perrors.ErrCodeUnauthorized, ErrNetwork, "status %d", code)
	case code == http.StatusForbidden:
		return perrors.Wrap(perrors.ErrCodeForbidden, ErrNetwork, "status %d", code)
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(header.Get("Retry-After"))
		return &httputil.RetryableError{Err: &perrors.RateLimitedError{RetryAfter: retryAfter}}
	case code >= 500:
		return &httputil.RetryableError{Err: perrors.Wrap(perrors.ErrCodeNetwork, ErrNetwork, "status %d", code)}
	default:
		return perrors.Wrap(perrors.ErrCodeNetwork, ErrNetwork, "status %d", code)
	}
}
