package model

import (
	"fmt"
	"time"
)

// Result is the aggregate outcome of scraping one site. It is built
// incrementally during the run and finalized once the frontier drains.
// The engine owns it exclusively for the duration of one run; callers
// receive it only after Finish.
type Result struct {
	// RunID uniquely identifies this run (UUID), for history storage.
	RunID string `json:"run_id"`

	// RootURL is the URL the scrape started from.
	RootURL string `json:"root_url"`

	// DecisionMakers are the deduplicated person records found on the site.
	DecisionMakers []Person `json:"decision_makers"`

	// PagesCrawled counts pages fetched and processed successfully.
	PagesCrawled int `json:"pages_crawled"`

	// PagesSkipped counts pages that were admitted to the frontier but
	// failed to fetch or render (each also contributes an Errors entry).
	PagesSkipped int `json:"pages_skipped"`

	// Errors holds one "<url>: <reason>" string per failed page, plus any
	// run-level failure. Partial results are always returned alongside.
	Errors []string `json:"errors,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run completed (zero until Finish).
	FinishedAt time.Time `json:"finished_at"`
}

// NewResult creates a Result for a run that starts now.
func NewResult(runID, rootURL string) *Result {
	return &Result{
		RunID:          runID,
		RootURL:        rootURL,
		DecisionMakers: []Person{},
		Errors:         []string{},
		StartedAt:      time.Now(),
	}
}

// ErrorResult creates a finished, error-only Result. The batch entry point
// uses it when a whole-site run fails: the site reports its failure without
// aborting the remaining sites.
func ErrorResult(runID, rootURL string, err error) *Result {
	r := NewResult(runID, rootURL)
	r.AddError(rootURL, err)
	r.Finish()
	return r
}

// AddError records one failure as a "<url>: <reason>" entry.
func (r *Result) AddError(pageURL string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", pageURL, err))
}

// Finish stamps the completion time.
func (r *Result) Finish() {
	r.FinishedAt = time.Now()
}

// Duration returns how long the run took, or the elapsed time so far when
// the run has not finished.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
