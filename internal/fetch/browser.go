package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// BrowserFetcher retrieves pages by rendering them in headless Chrome.
// It exists for sites that only produce their team and contact content
// after JavaScript runs; the StaticFetcher sees an empty shell there.
//
// One Chrome process is shared across all pages of a run; each page
// renders in its own tab. Close releases the browser.
type BrowserFetcher struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc

	// timeout bounds a single page render, navigation included.
	timeout time.Duration

	// maxTextBytes caps the harvested visible text per page.
	maxTextBytes int
}

// BrowserOption configures a BrowserFetcher.
type BrowserOption func(*BrowserFetcher)

// WithBrowserTimeout sets the per-page render timeout.
func WithBrowserTimeout(d time.Duration) BrowserOption {
	return func(f *BrowserFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithBrowserMaxTextBytes sets the harvested text cap per page.
func WithBrowserMaxTextBytes(n int) BrowserOption {
	return func(f *BrowserFetcher) {
		if n > 0 {
			f.maxTextBytes = n
		}
	}
}

// NewBrowserFetcher prepares a headless Chrome allocator. The browser
// process itself is not started until the first page render (or an
// explicit Warm call), so constructing the fetcher is cheap and cannot
// fail.
func NewBrowserFetcher(opts ...BrowserOption) *BrowserFetcher {
	f := &BrowserFetcher{
		timeout:      defaultPageTimeout,
		maxTextBytes: defaultMaxTextBytes,
	}

	for _, opt := range opts {
		opt(f)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(defaultUserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	f.allocCancel = allocCancel
	f.browserCtx, f.browserCancel = chromedp.NewContext(allocCtx)

	return f
}

// Warm starts the browser process early so a missing Chrome binary
// surfaces before the first crawl wave rather than in the middle of one.
func (f *BrowserFetcher) Warm(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(f.browserCtx)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrBrowserUnavailable, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBrowserUnavailable, err)
		}
		return nil
	}
}

// FetchLinks renders a page and returns only its outgoing links.
func (f *BrowserFetcher) FetchLinks(ctx context.Context, pageURL string) ([]model.Link, error) {
	htmlSrc, finalURL, err := f.render(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	result, err := parseRendered(htmlSrc, finalURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	return result.Links, nil
}

// FetchPage renders a page and returns its title, visible text, and links.
func (f *BrowserFetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	htmlSrc, finalURL, err := f.render(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	result, err := parseRendered(htmlSrc, finalURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	return &Page{
		URL:   pageURL,
		Title: result.Title,
		Text:  harvestText(htmlSrc, f.maxTextBytes),
		Links: result.Links,
		// The DevTools protocol does not expose the HTTP status of the
		// main document without response interception; a completed
		// render is reported as 200.
		StatusCode: 200,
	}, nil
}

// Close shuts down the shared browser process.
func (f *BrowserFetcher) Close() error {
	err := chromedp.Cancel(f.browserCtx)
	f.browserCancel()
	f.allocCancel()
	return err
}

// render navigates a fresh tab to pageURL, waits for the document to be
// ready, and returns the rendered HTML plus the final location.
func (f *BrowserFetcher) render(ctx context.Context, pageURL string) (htmlSrc, finalURL string, err error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	tabCtx, tabCancel := chromedp.NewContext(f.browserCtx)
	defer tabCancel()

	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, f.timeout)
	defer timeoutCancel()

	// Honor caller cancellation as well as the per-page timeout.
	go func() {
		select {
		case <-ctx.Done():
			timeoutCancel()
		case <-tabCtx.Done():
		}
	}()

	err = chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &htmlSrc),
	)
	if err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", pageURL, err)
	}

	return htmlSrc, finalURL, nil
}

// parseRendered extracts the title and links from rendered HTML.
func parseRendered(htmlSrc, finalURL string) (*ParseResult, error) {
	parser, err := NewParser(finalURL)
	if err != nil {
		return nil, err
	}
	return parser.Parse(strings.NewReader(htmlSrc))
}
