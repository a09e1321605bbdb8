package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// StaticFetcher retrieves pages with plain HTTP GET requests. It is the
// default fetcher and handles the majority of sites, which render their
// team and contact pages server-side.
type StaticFetcher struct {
	// client performs the requests. The zero-value client from
	// NewStaticFetcher follows at most 10 redirects (net/http default).
	client *http.Client

	// userAgent is sent in the User-Agent header of every request.
	userAgent string

	// timeout bounds a single page fetch.
	timeout time.Duration

	// maxBodySize limits how many response bytes are read.
	maxBodySize int64

	// maxTextBytes caps the harvested visible text per page.
	maxTextBytes int
}

// StaticOption configures a StaticFetcher.
type StaticOption func(*StaticFetcher)

// WithHTTPClient replaces the HTTP client. Useful for proxies and tests.
func WithHTTPClient(client *http.Client) StaticOption {
	return func(f *StaticFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) StaticOption {
	return func(f *StaticFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTimeout sets the per-page fetch timeout.
func WithTimeout(d time.Duration) StaticOption {
	return func(f *StaticFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) StaticOption {
	return func(f *StaticFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithMaxTextBytes sets the harvested text cap per page.
func WithMaxTextBytes(n int) StaticOption {
	return func(f *StaticFetcher) {
		if n > 0 {
			f.maxTextBytes = n
		}
	}
}

// NewStaticFetcher creates a StaticFetcher with sane defaults.
func NewStaticFetcher(opts ...StaticOption) *StaticFetcher {
	f := &StaticFetcher{
		client:       &http.Client{},
		userAgent:    defaultUserAgent,
		timeout:      defaultPageTimeout,
		maxBodySize:  defaultMaxBodySize,
		maxTextBytes: defaultMaxTextBytes,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FetchLinks retrieves only the outgoing links of a page. No text is
// harvested; this is the cheap probe used to pre-seed the crawl frontier.
func (f *StaticFetcher) FetchLinks(ctx context.Context, pageURL string) ([]model.Link, error) {
	body, finalURL, _, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	result, err := f.parse(body, finalURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	return result.Links, nil
}

// FetchPage retrieves a page's title, visible text, and links.
func (f *StaticFetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	body, finalURL, status, err := f.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	result, err := f.parse(body, finalURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	return &Page{
		URL:        pageURL,
		Title:      result.Title,
		Text:       harvestText(string(body), f.maxTextBytes),
		Links:      result.Links,
		StatusCode: status,
	}, nil
}

// Close releases idle connections held by the HTTP client.
func (f *StaticFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// get performs one GET request and returns the (size-capped) body, the
// final URL after redirects, and the HTTP status.
func (f *StaticFetcher) get(ctx context.Context, pageURL string) ([]byte, string, int, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, "", 0, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to build request for %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", resp.StatusCode, fmt.Errorf("%w: %d %s", ErrBadStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, "", resp.StatusCode, fmt.Errorf("failed to read %s: %w", pageURL, err)
	}

	return body, resp.Request.URL.String(), resp.StatusCode, nil
}

// parse extracts the title and links from an HTML body, resolving
// relative hrefs against the final response URL.
func (f *StaticFetcher) parse(body []byte, finalURL string) (*ParseResult, error) {
	parser, err := NewParser(finalURL)
	if err != nil {
		return nil, err
	}
	return parser.Parse(bytes.NewReader(body))
}
