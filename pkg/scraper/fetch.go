package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	DEFAULT_USER_AGENT = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DEFAULT_PROXY      = "https://api.allorigins.win/raw"
	DEFAULT_TIMEOUT    = 20 * time.Second

	METHOD_DIRECT = "direct"
	METHOD_PROXY  = "proxy"

	maxBodySize = 16 << 20
)

// FetchError is returned when every fetch method failed.
type FetchError struct {
	Last error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("All methods failed. Last error: %v", e.Last)
}

func (e *FetchError) Unwrap() error {
	return e.Last
}

// Method builds the request of one fetch strategy for link.
type Method struct {
	Name    string
	Request func(ctx context.Context, link string) (*http.Request, error)
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	proxy     string
	methods   []Method
	observe   func(method string, err error)
}

type FetcherOption func(f *Fetcher)

func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithProxy sets the base of the proxy method, the link is passed as the
// url query parameter.
func WithProxy(base string) FetcherOption {
	return func(f *Fetcher) {
		if base != "" {
			f.proxy = base
		}
	}
}

func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithObserver registers a callback invoked after every attempt.
func WithObserver(fn func(method string, err error)) FetcherOption {
	return func(f *Fetcher) {
		f.observe = fn
	}
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		userAgent: DEFAULT_USER_AGENT,
		timeout:   DEFAULT_TIMEOUT,
		proxy:     DEFAULT_PROXY,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.methods = []Method{
		{Name: METHOD_DIRECT, Request: f.directRequest},
		{Name: METHOD_PROXY, Request: f.proxyRequest},
	}
	return f
}

func (f *Fetcher) directRequest(ctx context.Context, link string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")
	return req, nil
}

func (f *Fetcher) proxyRequest(ctx context.Context, link string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, http.MethodGet, f.proxy+"?url="+url.QueryEscape(link), nil)
}

// Fetch tries each method once, in order, and returns the first 2xx body.
func (f *Fetcher) Fetch(ctx context.Context, link string) ([]byte, error) {
	var lastErr error
	for _, m := range f.methods {
		body, err := f.try(ctx, m, link)
		if f.observe != nil {
			f.observe(m.Name, err)
		}
		if err == nil {
			return body, nil
		}
		slog.Warn("fetch method failed", slog.String("method", m.Name), slog.String("link", link),
			slog.String("error", err.Error()), slog.String("component", "scraper"))
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	return nil, &FetchError{Last: lastErr}
}

func (f *Fetcher) try(ctx context.Context, m Method, link string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := m.Request(ctx, link)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: HTTP %d", m.Name, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}
