// Package fetch performs the single bounded page download behind a link
// quote. One request in, one page out; the deadline-driven abort is the
// whole point of the package.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent identifies quote fetches to merchant sites.
const DefaultUserAgent = "SelektiQuoteBot/1.0 (+https://selekti.dk/bot)"

const defaultMaxBodyBytes = 2 << 20

// Client is a bounded-timeout HTTP fetcher for product pages.
type Client struct {
	http         *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
}

// Options tune the fetcher; zero values fall back to defaults.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// New builds a fetch client with its own transport so slow merchant
// sites cannot starve unrelated outbound calls.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Client{
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   opts.Timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		timeout:      opts.Timeout,
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// Timeout reports the configured per-fetch deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Get downloads one page within the client's deadline. The context is
// cancelled when the deadline fires, aborting the in-flight request.
// Failures come back as ErrTimeout, ErrNetwork or ErrBadStatus.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", ErrNetwork{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", ErrBadStatus{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return "", classify(err)
	}
	return string(body), nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	return ErrNetwork{Err: err}
}
