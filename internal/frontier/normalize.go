package frontier

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Normalization errors.
var (
	// ErrUnparseableURL is returned when the URL cannot be parsed at all.
	ErrUnparseableURL = errors.New("unparseable url")
	// ErrNotAbsolute is returned when the URL lacks a scheme or host.
	// Only absolute URLs may enter the frontier.
	ErrNotAbsolute = errors.New("url is not absolute")
)

// Normalize canonicalizes a URL for deduplication:
//
//   - lowercases the scheme and host
//   - strips the fragment
//   - strips ALL query parameters (corporate pages are path-based; query
//     params are almost always analytics trackers)
//   - strips trailing slashes from the path, keeping "/" for the root
//
// Normalize is idempotent: Normalize(Normalize(u)) == Normalize(u).
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnparseableURL, rawURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrNotAbsolute, rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""
	u.ForceQuery = false

	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = "/"
	}
	u.Path = path
	u.RawPath = ""

	return u.String(), nil
}
