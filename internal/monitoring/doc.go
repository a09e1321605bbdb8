// Package monitoring exposes Prometheus metrics for scrape runs.
//
// Metrics cover the crawl loop (pages crawled and skipped, wave sizes,
// frontier depth, worker count) and the extraction outcome (decision
// makers found, errors by type). An optional HTTP server publishes the
// collectors on /metrics at an operator-chosen address.
//
// Design decision: collectors are registered on a private registry
// instead of prometheus.DefaultRegisterer because:
// 1. Scrape runs are embedded in tests and in other binaries, and a
//    private registry avoids duplicate-registration panics
// 2. The /metrics endpoint exports only leadscan series, keeping the
//    scrape surface predictable for dashboards
// 3. A nil *Metrics disables instrumentation entirely, so library users
//    pay nothing when they do not opt in
package monitoring
