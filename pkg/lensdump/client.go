package lensdump

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lensdl/pkg/config"
	errs "lensdl/pkg/errors"
	"lensdl/pkg/logger"
	"lensdl/pkg/metrics"
	"lensdl/pkg/ratelimit"
	"lensdl/pkg/retry"
)

// Client fetches lensdump pages and files
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	root       string
	limiter    ratelimit.Limiter
	policy     *retry.Policy
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter paces every request through l
func WithLimiter(l ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithRetry sets the retry policy for requests
func WithRetry(p *retry.Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithMetrics records request counts and durations
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the client logger
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the site described by cfg
func NewClient(cfg config.LensdumpConfig, opts ...Option) *Client {
	root := strings.TrimRight(cfg.Root, "/")
	if root == "" {
		root = Root
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultConfig().Lensdump.UserAgent
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
			"Referer":         root + "/",
		},
		root:    root,
		limiter: ratelimit.Unlimited{},
		policy:  &retry.Policy{MaxAttempts: 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.GetLogger()
	}
	if c.policy.Logger == nil {
		p := *c.policy
		p.Logger = c.logger
		c.policy = &p
	}
	return c
}

// Limiter returns the limiter shared by page requests and downloads
func (c *Client) Limiter() ratelimit.Limiter {
	return c.limiter
}

// Root returns the site root every relative link is resolved against
func (c *Client) Root() string {
	return c.root
}

// GetPage fetches url and returns the response body as text
func (c *Client) GetPage(ctx context.Context, url string) (string, error) {
	body, err := c.fetch(ctx, "page", url, true)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	return string(body), nil
}

// Download fetches the file at url. Downloads are not paced by the
// client limiter; the download pool waits on it before calling Download.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	body, err := c.fetch(ctx, "file", url, false)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, kind, url string, paced bool) ([]byte, error) {
	return retry.DoWithResult(ctx, func(ctx context.Context) ([]byte, error) {
		if paced {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		return c.doRequest(ctx, kind, url)
	}, c.policy)
}

func (c *Client) doRequest(ctx context.Context, kind, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, err, "failed to create request")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(kind, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.WithError(err).WarnWithFields("HTTP request failed", map[string]interface{}{
			"url": url,
		})
		e := errs.Wrap(errs.ErrorTypeNetwork, err, "request failed")
		e.URL = url
		return nil, e
	}
	defer resp.Body.Close()

	duration := time.Since(start)
	c.metrics.ObserveRequest(kind, resp.StatusCode, duration)
	logger.LogRequest(c.logger, req.Method, url, resp.StatusCode, duration)

	if e := errs.FromStatus(resp.StatusCode, url); e != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, e
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e := errs.Wrap(errs.ErrorTypeNetwork, err, "failed to read response body")
		e.URL = url
		return nil, e
	}
	return body, nil
}
