package fetch

import "errors"

// Fetch errors.
// These sentinels classify why a page could not be retrieved. Callers
// match them with errors.Is(); call sites wrap them with fmt.Errorf to
// attach the URL or status involved.
var (
	// ErrBadStatus is returned when the server answers with a non-2xx
	// HTTP status code.
	ErrBadStatus = errors.New("unexpected HTTP status")

	// ErrRobotsDisallowed is returned when robots.txt forbids fetching
	// the requested path. Pages rejected this way are skipped, never
	// requested.
	ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

	// ErrUnsupportedScheme is returned for URLs that are not http or
	// https, such as ftp:, file: or javascript: targets.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrBrowserUnavailable is returned when headless Chrome cannot be
	// started, typically because no Chrome or Chromium binary is
	// installed on the host.
	ErrBrowserUnavailable = errors.New("headless browser unavailable")
)
