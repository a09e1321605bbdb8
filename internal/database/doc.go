// Package database provides SQLite-based storage for scrape run history.
//
// This package implements the ScrapeDB, which stores:
//   - One row per run with page counts and error entries
//   - The decision makers extracted by each run
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// The history answers "what did we find on this site last time" without
// re-crawling and without re-spending extraction API budget.
package database
