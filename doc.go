// Package leadscan finds decision makers on small-business websites.
//
// A scrape starts from a site's root URL, crawls inward through the pages
// most likely to name people (about, team, leadership, contact), and asks
// a language model to pull structured person records out of each page's
// visible text. The outcome is a deduplicated list of owners, executives,
// and managers with whatever contact details the site exposes.
//
// Basic usage:
//
//	result, err := leadscan.Scrape(ctx, "https://acme.example",
//		leadscan.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//		leadscan.WithMaxPages(30),
//	)
//
// Scrape degrades rather than aborts: a page that fails to fetch or
// extract becomes one error entry and one skipped count in the Result,
// and the partial result is still returned. ScrapeMany extends the same
// guarantee across sites, so one broken site never costs the batch.
//
// Design decision: the public API is two functions and a set of options
// rather than a client struct because:
// 1. A scrape has no state worth keeping between calls; every run builds
//    fresh frontier, dedup, and fetcher state anyway
// 2. Options make the zero-config call useful while keeping every knob
//    reachable
// 3. The heavyweight collaborators (browser process, HTTP pools) live
//    exactly as long as one run, which deferred cleanup handles naturally
package leadscan
