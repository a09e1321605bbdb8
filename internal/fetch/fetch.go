package fetch

import (
	"context"
	"time"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// Default fetcher settings. All of them can be overridden per fetcher
// through functional options.
const (
	// defaultUserAgent identifies leadscan to the sites it visits.
	defaultUserAgent = "leadscan/1.0 (+https://github.com/kvasirlabs/leadscan)"

	// defaultPageTimeout bounds a single page fetch, including the
	// headless render in the browser fetcher.
	defaultPageTimeout = 30 * time.Second

	// defaultMaxBodySize limits how much of a response body is read.
	// Pages larger than this are truncated, not rejected.
	defaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// defaultMaxTextBytes caps the harvested visible text. The
	// extraction model only sees the first few kilobytes of a page, so
	// carrying more text around buys nothing.
	defaultMaxTextBytes = 8 * 1024 // 8KiB
)

// PageFetcher retrieves pages from a target site.
//
// Design decision: the interface has a separate links-only method
// because the crawl engine probes the root page for links before the
// first extraction wave. That probe must stay cheap: no text harvest,
// no render wait beyond what link discovery needs.
type PageFetcher interface {
	// FetchLinks retrieves only the outgoing links of a page.
	FetchLinks(ctx context.Context, pageURL string) ([]model.Link, error)

	// FetchPage retrieves a page's title, visible text, and links.
	FetchPage(ctx context.Context, pageURL string) (*Page, error)

	// Close releases resources held by the fetcher, such as idle
	// connections or a browser process.
	Close() error
}

// Page is the fetched and distilled form of a single web page.
type Page struct {
	// URL is the address the page was requested under.
	URL string

	// Title is the content of the <title> element, trimmed.
	Title string

	// Text is the visible text of the page with scripts, styles and
	// navigation chrome removed and whitespace collapsed. It is capped
	// at the fetcher's text limit.
	Text string

	// Links are the outgoing links with resolved absolute hrefs.
	Links []model.Link

	// StatusCode is the HTTP status of the response that produced the
	// page. Always 2xx; other statuses surface as errors instead.
	StatusCode int
}
