// Package frontier implements URL selection for a scrape run: canonical URL
// normalization, the grow-only seen-set, relevance scoring of candidate
// links, and the budgeted BFS queue the engine drains in waves.
//
// # Components
//
//   - Normalize: canonicalizes URLs so trivially different spellings of the
//     same page deduplicate to one fetch
//   - SeenSet: tracks canonical URLs for the lifetime of one run
//   - Score / Filter: keyword-tier relevance scoring and same-domain
//     filtering of discovered links
//   - Frontier: the FIFO queue with the hard page budget
//
// Design decision: Everything in this package is pure computation over
// strings and in-memory state (no I/O, no goroutines, no locks) because:
//  1. The engine mutates frontier state only between waves, so single-flow
//     access is guaranteed by construction
//  2. Pure functions make the scoring heuristics swappable and trivially
//     testable
//  3. Keeping I/O out of selection logic keeps the crawl budget enforcement
//     auditable in one place
package frontier
