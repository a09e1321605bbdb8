package leadscan

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kvasirlabs/leadscan/internal/extract"
	"github.com/kvasirlabs/leadscan/internal/fetch"
	"github.com/kvasirlabs/leadscan/internal/model"
	"github.com/kvasirlabs/leadscan/internal/monitoring"
	"github.com/kvasirlabs/leadscan/internal/resource"
)

// scrapeConfig holds the assembled settings for one Scrape or ScrapeMany
// call. newScrapeConfig fills in defaults before applying options; the
// zero value is not used directly.
type scrapeConfig struct {
	maxPages      int
	maxWorkers    int
	apiKey        string
	model         string
	endpoint      string
	rateLimit     float64
	rateLimitSet  bool
	pageTimeout   time.Duration
	useBrowser    bool
	respectRobots bool
	logger        *slog.Logger
	metrics       *monitoring.Metrics
	httpClient    *http.Client
}

// Option configures a Scrape or ScrapeMany call.
// This follows the functional options pattern for clean API design.
type Option func(*scrapeConfig)

// newScrapeConfig builds the default configuration and applies options.
func newScrapeConfig(opts ...Option) *scrapeConfig {
	cfg := &scrapeConfig{
		maxPages:      model.DefaultMaxPages,
		respectRobots: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithMaxPages caps how many pages one site scrape may fetch.
// Non-positive values keep the default of model.DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(cfg *scrapeConfig) {
		if n > 0 {
			cfg.maxPages = n
		}
	}
}

// WithMaxWorkers caps how many pages are fetched concurrently within a
// wave. The cap is honored even when the host could afford more; zero
// keeps the adaptive sizing from the resource monitor.
func WithMaxWorkers(n int) Option {
	return func(cfg *scrapeConfig) {
		if n > 0 {
			cfg.maxWorkers = n
		}
	}
}

// WithAPIKey sets the extraction API key. It is required: without a key,
// Scrape fails before any page is fetched.
func WithAPIKey(key string) Option {
	return func(cfg *scrapeConfig) {
		cfg.apiKey = key
	}
}

// WithModel selects the extraction model. Empty keeps the default.
func WithModel(name string) Option {
	return func(cfg *scrapeConfig) {
		if name != "" {
			cfg.model = name
		}
	}
}

// WithEndpoint points extraction at a different chat-completions URL,
// such as a proxy or an API-compatible local server.
func WithEndpoint(endpoint string) Option {
	return func(cfg *scrapeConfig) {
		if endpoint != "" {
			cfg.endpoint = endpoint
		}
	}
}

// WithRateLimit sets the client-side request rate toward the extraction
// API in requests per second. Zero or negative disables the limiter.
// Without this option the extraction client's own default applies.
func WithRateLimit(rps float64) Option {
	return func(cfg *scrapeConfig) {
		cfg.rateLimit = rps
		cfg.rateLimitSet = true
	}
}

// WithBrowser toggles headless-browser rendering for JavaScript-heavy
// sites. Rendering is slower and needs a Chrome binary; leave it off
// unless the static fetcher comes back empty.
func WithBrowser(enabled bool) Option {
	return func(cfg *scrapeConfig) {
		cfg.useBrowser = enabled
	}
}

// WithLogger sets the logger for the run. The default discards all logs.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *scrapeConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithPageTimeout bounds each single page fetch, render included.
func WithPageTimeout(d time.Duration) Option {
	return func(cfg *scrapeConfig) {
		if d > 0 {
			cfg.pageTimeout = d
		}
	}
}

// WithRespectRobots toggles robots.txt enforcement. It is on by default;
// pages a site disallows are counted as skipped without being fetched.
func WithRespectRobots(respect bool) Option {
	return func(cfg *scrapeConfig) {
		cfg.respectRobots = respect
	}
}

// WithMetrics attaches Prometheus instrumentation to the run. Nil is
// safe and records nothing.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(cfg *scrapeConfig) {
		cfg.metrics = m
	}
}

// WithHTTPClient replaces the HTTP client used for static fetching,
// robots.txt retrieval, and extraction calls. Useful for proxies and
// tests.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *scrapeConfig) {
		if client != nil {
			cfg.httpClient = client
		}
	}
}

// newFetcher builds the page fetcher for one site: a headless browser
// when rendering was requested, a plain HTTP fetcher otherwise, wrapped
// in the robots.txt gate unless that was disabled. The caller owns the
// returned fetcher and must Close it.
func (cfg *scrapeConfig) newFetcher(ctx context.Context) (fetch.PageFetcher, error) {
	var inner fetch.PageFetcher

	if cfg.useBrowser {
		var bopts []fetch.BrowserOption
		if cfg.pageTimeout > 0 {
			bopts = append(bopts, fetch.WithBrowserTimeout(cfg.pageTimeout))
		}

		browser := fetch.NewBrowserFetcher(bopts...)
		if err := browser.Warm(ctx); err != nil {
			_ = browser.Close() //nolint:errcheck // the warm failure is the error that matters
			return nil, err
		}
		inner = browser
	} else {
		var sopts []fetch.StaticOption
		if cfg.pageTimeout > 0 {
			sopts = append(sopts, fetch.WithTimeout(cfg.pageTimeout))
		}
		if cfg.httpClient != nil {
			sopts = append(sopts, fetch.WithHTTPClient(cfg.httpClient))
		}
		inner = fetch.NewStaticFetcher(sopts...)
	}

	if !cfg.respectRobots {
		return inner, nil
	}

	var ropts []fetch.RobotsOption
	if cfg.httpClient != nil {
		ropts = append(ropts, fetch.WithRobotsHTTPClient(cfg.httpClient))
	}
	return fetch.NewRobotsGate(inner, ropts...), nil
}

// newExtractor builds the extraction client for one site. A missing API
// key surfaces here, before any fetcher resources are allocated.
func (cfg *scrapeConfig) newExtractor() (extract.Extractor, error) {
	opts := []extract.ClientOption{
		extract.WithLogger(cfg.logger),
	}
	if cfg.model != "" {
		opts = append(opts, extract.WithModel(cfg.model))
	}
	if cfg.endpoint != "" {
		opts = append(opts, extract.WithEndpoint(cfg.endpoint))
	}
	if cfg.rateLimitSet {
		// Burst covers a full wave of workers so a fresh wave does not
		// stall behind the steady-state rate.
		burst := resource.DefaultMaxWorkers
		if cfg.maxWorkers > burst {
			burst = cfg.maxWorkers
		}
		opts = append(opts, extract.WithRateLimit(cfg.rateLimit, burst))
	}
	if cfg.httpClient != nil {
		opts = append(opts, extract.WithHTTPClient(cfg.httpClient))
	}
	return extract.NewClient(cfg.apiKey, opts...)
}
