// Package engine runs the crawl: it owns the frontier, schedules waves
// of concurrent page work, and accumulates the run's outcome.
//
// # Architecture
//
// The engine processes a site in waves. The entire frontier queue is
// drained into one wave, every page in the wave is fetched and extracted
// concurrently under a worker limit, and only after the whole wave
// resolves does the engine touch shared state again: counting outcomes,
// scoring and admitting newly discovered links, and deciding whether
// another wave follows.
//
// Design decision: We use sequential waves instead of a streaming work
// queue because:
//  1. The frontier and seen-set are only ever touched between waves, so
//     they need no locking at all
//  2. Worker sizing can react to host pressure at a natural boundary,
//     before each wave starts
//  3. Accumulation order is deterministic for a given link graph, which
//     keeps the first-seen-wins dedup stable
//  4. A site crawl is shallow and wide; waves lose almost no parallelism
//     compared to a streaming queue
//
// Wave tasks write their outcome into a pre-allocated slice index and
// return nil; a page failure becomes one error entry plus one skipped
// count, never an aborted wave.
package engine
