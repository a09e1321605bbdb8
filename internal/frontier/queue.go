package frontier

import "github.com/kvasirlabs/leadscan/internal/model"

// Frontier is the BFS queue of URLs awaiting crawl, with the hard page
// budget enforced at every admission. URLs are stored as given (the fetch
// uses the original absolute URL); deduplication happens on the canonical
// form via the embedded SeenSet.
//
// Frontier is NOT safe for concurrent use; the engine touches it only
// between waves.
type Frontier struct {
	queue  []string
	seen   *SeenSet
	budget int
	queued int
}

// NewFrontier creates an empty Frontier with the given page budget.
// A budget <= 0 falls back to model.DefaultMaxPages.
func NewFrontier(maxPages int) *Frontier {
	if maxPages <= 0 {
		maxPages = model.DefaultMaxPages
	}
	return &Frontier{
		seen:   NewSeenSet(),
		budget: maxPages,
	}
}

// Seed admits the root URL. Unlike Offer it reports an error for URLs that
// cannot be normalized, since a rejected root means the run cannot start.
func (f *Frontier) Seed(rawURL string) error {
	if _, err := Normalize(rawURL); err != nil {
		return err
	}
	f.Offer(rawURL)
	return nil
}

// Offer attempts to admit one URL. It returns true only when the URL is
// within budget AND has not been seen before; the URL is then queued and
// counted against the budget. The budget check runs first so a rejected
// offer never consumes seen-set state it can't use.
func (f *Frontier) Offer(rawURL string) bool {
	if f.queued >= f.budget {
		return false
	}
	if !f.seen.IsNew(rawURL) {
		return false
	}
	f.queue = append(f.queue, rawURL)
	f.queued++
	return true
}

// DrainWave removes and returns the entire current queue contents as one
// wave. Subsequent Offers start filling the next wave.
func (f *Frontier) DrainWave() []string {
	wave := f.queue
	f.queue = nil
	return wave
}

// Len returns the number of URLs currently queued (the size of the next
// wave if drained now).
func (f *Frontier) Len() int {
	return len(f.queue)
}

// TotalQueued returns how many URLs have been admitted over the whole run.
// The frontier guarantees TotalQueued() <= Budget() at all times.
func (f *Frontier) TotalQueued() int {
	return f.queued
}

// Budget returns the page budget for the run.
func (f *Frontier) Budget() int {
	return f.budget
}

// Exhausted reports whether the budget is fully allocated and no further
// offers can be admitted.
func (f *Frontier) Exhausted() bool {
	return f.queued >= f.budget
}
