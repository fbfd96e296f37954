package favicon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps http.Client for favicon lookups:
//   - per host rate limiting
//   - custom user agent
//   - request timeout
//
// Requests are never retried.
type Client struct {
	client       *http.Client
	rateLimiters *sync.Map
	rateLimit    rate.Limit
	userAgent    string
}

// NewClient builds a Client. A nil transport uses a dialer tuned for many
// short requests to different hosts; a non-positive limit disables limiting.
func NewClient(transport http.RoundTripper, limit rate.Limit, timeout time.Duration, userAgent string) *Client {
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}
	if limit <= 0 {
		limit = rate.Inf
	}
	return &Client{
		client:       &http.Client{Transport: transport, Timeout: timeout},
		rateLimiters: &sync.Map{},
		rateLimit:    limit,
		userAgent:    userAgent,
	}
}

// Do waits for the host's rate limiter and sends req.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	v, _ := c.rateLimiters.LoadOrStore(req.URL.Host, rate.NewLimiter(c.rateLimit, 1))
	limiter := v.(*rate.Limiter)

	t0 := time.Now()
	if err := limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("wait for rate limit: %w", err)
	}
	slog.Debug("rate limit", "host", req.URL.Host, "waited", time.Since(t0))

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.client.Do(req)
}

// Get issues a GET for rawURL bound to ctx.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

func checkStatus(resp *http.Response, rawURL string) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned status %d", rawURL, resp.StatusCode)
	}
	return nil
}
