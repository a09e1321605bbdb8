package model

import (
	"errors"
	"net/url"
	"strings"
)

// Target errors.
var (
	// ErrEmptyTargetURL is returned when the target URL is empty.
	ErrEmptyTargetURL = errors.New("target url cannot be empty")
	// ErrInvalidTargetURL is returned when the URL cannot be parsed or has no host.
	ErrInvalidTargetURL = errors.New("invalid target url")
	// ErrUnsupportedScheme is returned when the URL scheme is not http or https.
	ErrUnsupportedScheme = errors.New("target url scheme must be http or https")
)

const (
	// DefaultMaxPages is the page budget used when the caller does not set
	// one. Generous enough to reach the pages where businesses list their
	// people (about, team, contact); the CLI applies a tighter default.
	DefaultMaxPages = 50

	// wwwPrefix is stripped from hosts when deriving the base domain.
	wwwPrefix = "www."
)

// Target is an immutable value object representing one site to scrape:
// a validated root URL plus the per-run page budget and worker cap.
// It is created once per scrape invocation and never mutated.
type Target struct {
	url        string // Root URL as given (scheme and host validated)
	baseDomain string // Lowercased host with any leading "www." removed
	maxPages   int    // Hard ceiling on total URLs admitted to the frontier
	maxWorkers int    // Worker cap override; 0 means resolve automatically
}

// NewTarget creates a Target from a raw URL and per-run budgets.
// maxPages <= 0 falls back to DefaultMaxPages. maxWorkers <= 0 means the
// resource monitor decides. Returns an error for empty input, unparseable
// URLs, missing hosts, and non-http(s) schemes.
func NewTarget(rawURL string, maxPages, maxWorkers int) (Target, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return Target{}, ErrEmptyTargetURL
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return Target{}, ErrInvalidTargetURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Target{}, ErrUnsupportedScheme
	}
	if u.Host == "" {
		return Target{}, ErrInvalidTargetURL
	}

	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if maxWorkers < 0 {
		maxWorkers = 0
	}

	return Target{
		url:        trimmed,
		baseDomain: BaseDomain(u.Host),
		maxPages:   maxPages,
		maxWorkers: maxWorkers,
	}, nil
}

// MustNewTarget creates a Target or panics if invalid.
// Use only for known-valid URLs in tests or initialization.
func MustNewTarget(rawURL string, maxPages, maxWorkers int) Target {
	t, err := NewTarget(rawURL, maxPages, maxWorkers)
	if err != nil {
		panic(err)
	}
	return t
}

// BaseDomain derives the domain used for same-site checks from a host:
// lowercased, with any leading "www." removed. The port is kept as-is so
// that hosts serving on non-default ports only match themselves.
func BaseDomain(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), wwwPrefix)
}

// URL returns the root URL the scrape starts from.
func (t Target) URL() string { return t.url }

// BaseDomain returns the domain candidate link hosts must contain.
func (t Target) BaseDomain() string { return t.baseDomain }

// MaxPages returns the hard page budget for the run.
func (t Target) MaxPages() int { return t.maxPages }

// MaxWorkers returns the worker cap override, or 0 for automatic sizing.
func (t Target) MaxWorkers() int { return t.maxWorkers }

// IsZero returns true if this is a zero value (empty) Target.
func (t Target) IsZero() bool { return t.url == "" }
