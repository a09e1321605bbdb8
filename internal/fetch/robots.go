package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// robotsTimeout bounds the one-time robots.txt fetch per host.
const robotsTimeout = 10 * time.Second

// RobotsGate wraps a PageFetcher and enforces robots.txt before any page
// request is delegated. robots.txt is fetched once per host per run.
//
// Enforcement fails open: a robots.txt that cannot be fetched and parsed
// (missing file, unreachable server, 5xx answer) allows everything, and
// otherwise the group matching our user-agent decides per path.
type RobotsGate struct {
	next      PageFetcher
	client    *http.Client
	userAgent string

	mu sync.Mutex
	// groups caches the matched robots group per "scheme://host".
	// A present nil entry means the host allows everything.
	groups map[string]*robotstxt.Group
}

// RobotsOption configures a RobotsGate.
type RobotsOption func(*RobotsGate)

// WithRobotsHTTPClient replaces the client used to fetch robots.txt.
func WithRobotsHTTPClient(client *http.Client) RobotsOption {
	return func(g *RobotsGate) {
		if client != nil {
			g.client = client
		}
	}
}

// WithRobotsUserAgent sets the user-agent matched against robots groups.
func WithRobotsUserAgent(ua string) RobotsOption {
	return func(g *RobotsGate) {
		if ua != "" {
			g.userAgent = ua
		}
	}
}

// NewRobotsGate wraps next with robots.txt enforcement.
func NewRobotsGate(next PageFetcher, opts ...RobotsOption) *RobotsGate {
	g := &RobotsGate{
		next:      next,
		client:    &http.Client{},
		userAgent: defaultUserAgent,
		groups:    make(map[string]*robotstxt.Group),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// FetchLinks delegates to the wrapped fetcher if robots.txt permits.
func (g *RobotsGate) FetchLinks(ctx context.Context, pageURL string) ([]model.Link, error) {
	if err := g.allow(ctx, pageURL); err != nil {
		return nil, err
	}
	return g.next.FetchLinks(ctx, pageURL)
}

// FetchPage delegates to the wrapped fetcher if robots.txt permits.
func (g *RobotsGate) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	if err := g.allow(ctx, pageURL); err != nil {
		return nil, err
	}
	return g.next.FetchPage(ctx, pageURL)
}

// Close closes the wrapped fetcher.
func (g *RobotsGate) Close() error {
	return g.next.Close()
}

// allow returns ErrRobotsDisallowed when robots.txt forbids the URL's
// path. Unparseable or non-HTTP URLs pass through so the wrapped fetcher
// reports them with its own errors.
func (g *RobotsGate) allow(ctx context.Context, pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}

	group := g.lookup(ctx, u)
	if group == nil {
		return nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if !group.Test(path) {
		return fmt.Errorf("%w: %s", ErrRobotsDisallowed, pageURL)
	}
	return nil
}

// lookup returns the cached robots group for the URL's host, fetching
// robots.txt on first use. The lock is held across the fetch so that
// concurrent wave tasks trigger at most one request per host.
func (g *RobotsGate) lookup(ctx context.Context, u *url.URL) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host

	g.mu.Lock()
	defer g.mu.Unlock()

	if group, ok := g.groups[key]; ok {
		return group
	}

	group := g.fetchGroup(ctx, key+"/robots.txt")
	g.groups[key] = group
	return group
}

// fetchGroup retrieves and parses robots.txt. Any fetch or parse failure
// degrades to nil, which allows everything.
func (g *RobotsGate) fetchGroup(ctx context.Context, robotsURL string) *robotstxt.Group {
	ctx, cancel := context.WithTimeout(ctx, robotsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(g.userAgent)
}
