// Package model defines the core data structures used throughout leadscan.
//
// This package contains the following main types:
//   - Target: A validated scrape target (root URL plus per-run budgets)
//   - Person: One extracted decision-maker record
//   - Result: The aggregate outcome of scraping one site
//   - Link: A raw link as discovered on a page
//   - Tier: The relevance tier assigned to a link by the scorer
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (frontier, fetch, extract, engine, report,
// database) need these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
