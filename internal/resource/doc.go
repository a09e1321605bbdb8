// Package resource sizes the scrape worker pool from live host metrics.
//
// Rendering pages concurrently is memory-hungry (a browser tab costs
// roughly 150-300 MB), so a fixed worker constant either wastes capacity on
// big hosts or OOMs small ones. The Monitor samples memory and CPU via
// gopsutil and derives a safe worker count on demand.
//
// Design decision: The Monitor is a stateless service object injected into
// the engine and queried before each wave because:
//  1. Sampling at well-defined points avoids hidden process-global state
//  2. The worker decision always reflects current host pressure, so a run
//     that starts on an idle host still backs off when pressure rises
//  3. Injectable sampler functions let tests simulate memory pressure
//     without touching the host
//
// Resource exhaustion is never fatal: every failure path degrades to the
// minimum worker count.
package resource
