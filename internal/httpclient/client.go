package httpclient

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies this tool to the API, which rejects anonymous clients.
const DefaultUserAgent = "hh-export/1.0 (+https://github.com/rsilvagit/hh-export)"

// Options configures the API HTTP client.
type Options struct {
	UserAgent   string
	ProxyURL    string
	Timeout     time.Duration
	MinInterval time.Duration // minimum gap between requests; 0 disables limiting
	MaxRetries  int           // total attempts on 429/503; values below 1 mean one
	Backoff     time.Duration
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout == 0 {
		o.Timeout = 15 * time.Second
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 1
	}
	if o.Backoff == 0 {
		o.Backoff = 2 * time.Second
	}
	return o
}

// Client wraps http.Client with a fixed identifying header, rate limiting and
// retry with exponential backoff on throttling responses.
type Client struct {
	inner      *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	backoff    time.Duration
}

// New creates a Client with the given options.
func New(opts Options) (*Client, error) {
	opts = opts.withDefaults()

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("httpclient: invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.MinInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	}

	return &Client{
		inner:      &http.Client{Transport: transport, Timeout: opts.Timeout},
		limiter:    limiter,
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
	}, nil
}

// Do executes the request with the identifying headers, waiting for the rate
// limiter first and retrying on 429/503 up to MaxRetries attempts.
// The last throttled response is returned to the caller unread.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)

	var resp *http.Response

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("httpclient: rate limit: %w", err)
		}

		var err error
		resp, err = c.inner.Do(req)
		if err != nil {
			return nil, fmt.Errorf("httpclient: request failed: %w", err)
		}

		if !retryable(resp.StatusCode) || attempt == c.maxRetries-1 {
			return resp, nil
		}

		resp.Body.Close()
		backoff := time.Duration(1<<uint(attempt)) * c.backoff
		log.Warn().
			Str("host", req.URL.Host).
			Int("status", resp.StatusCode).
			Dur("backoff", backoff).
			Int("attempt", attempt+1).
			Int("max_attempts", c.maxRetries).
			Msg("httpclient: throttled, retrying")

		select {
		case <-time.After(backoff):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}
