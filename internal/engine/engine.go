package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kvasirlabs/leadscan/internal/dedup"
	"github.com/kvasirlabs/leadscan/internal/extract"
	"github.com/kvasirlabs/leadscan/internal/fetch"
	"github.com/kvasirlabs/leadscan/internal/frontier"
	"github.com/kvasirlabs/leadscan/internal/model"
	"github.com/kvasirlabs/leadscan/internal/monitoring"
	"github.com/kvasirlabs/leadscan/internal/resource"
)

// Engine crawls one site at a time. It is constructed once per run by
// the orchestrating caller; the fetcher and extractor are injected so
// the engine itself never knows whether pages come from plain HTTP, a
// headless browser, or a test fake.
type Engine struct {
	fetcher   fetch.PageFetcher
	extractor extract.Extractor
	monitor   *resource.Monitor
	logger    *slog.Logger
	metrics   *monitoring.Metrics
	score     frontier.ScoreFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation. A nil Metrics is
// valid and disables instrumentation.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithMonitor replaces the resource monitor that sizes each wave's
// worker count.
func WithMonitor(m *resource.Monitor) Option {
	return func(e *Engine) {
		if m != nil {
			e.monitor = m
		}
	}
}

// WithScoreFunc replaces the keyword scorer used to rank discovered
// links.
func WithScoreFunc(fn frontier.ScoreFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.score = fn
		}
	}
}

// New creates an Engine around a fetcher and an extractor.
func New(fetcher fetch.PageFetcher, extractor extract.Extractor, opts ...Option) *Engine {
	e := &Engine{
		fetcher:   fetcher,
		extractor: extractor,
		monitor:   resource.NewMonitor(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:   nil,
		score:     frontier.Score,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// pageOutcome is what one wave task produces. Exactly one goroutine
// writes each outcome, into its own pre-allocated slice index.
type pageOutcome struct {
	people  []model.Person
	links   []model.Link
	err     error
	errType string
}

// Run crawls the target site to completion and returns the accumulated
// result. An error is returned only when the run cannot start at all;
// once crawling begins, every failure is folded into the Result (error
// entries, skipped counts, partial records) and Run returns nil.
func (e *Engine) Run(ctx context.Context, target model.Target) (*model.Result, error) {
	if target.IsZero() {
		return nil, ErrNoTarget
	}

	result := model.NewResult(uuid.NewString(), target.URL())

	fr := frontier.NewFrontier(target.MaxPages())
	if err := fr.Seed(target.URL()); err != nil {
		return nil, fmt.Errorf("failed to seed frontier: %w", err)
	}

	filter, err := frontier.NewFilter(target.BaseDomain(), target.URL(), frontier.WithScoreFunc(e.score))
	if err != nil {
		return nil, fmt.Errorf("failed to build link filter: %w", err)
	}

	e.logger.Info("starting run",
		slog.String("run_id", result.RunID),
		slog.String("url", target.URL()),
		slog.Int("max_pages", target.MaxPages()))

	e.seedFromRoot(ctx, target.URL(), fr, filter)

	records := e.crawl(ctx, target, result, fr, filter)

	result.DecisionMakers = dedup.Dedupe(records)
	result.Finish()

	e.metrics.AddDecisionMakers(len(result.DecisionMakers))
	e.metrics.SetFrontierSize(0)

	e.logger.Info("run complete",
		slog.String("run_id", result.RunID),
		slog.Int("pages_crawled", result.PagesCrawled),
		slog.Int("pages_skipped", result.PagesSkipped),
		slog.Int("decision_makers", len(result.DecisionMakers)),
		slog.String("duration", result.Duration().String()))

	return result, nil
}

// seedFromRoot probes the root page for links before the first wave so
// that wave one already runs wide. The probe is best-effort: the root is
// still fully processed in wave one, so a failed probe costs nothing but
// parallelism.
func (e *Engine) seedFromRoot(ctx context.Context, rootURL string, fr *frontier.Frontier, filter *frontier.Filter) {
	links, err := e.fetcher.FetchLinks(ctx, rootURL)
	if err != nil {
		e.logger.Debug("root link probe failed",
			slog.String("url", rootURL),
			slog.String("error", err.Error()))
		return
	}

	admitted := 0
	for _, u := range filter.FilterAndRank(links) {
		if fr.Exhausted() {
			break
		}
		if fr.Offer(u) {
			admitted++
		}
	}

	e.metrics.SetFrontierSize(fr.Len())
	e.logger.Debug("frontier pre-seeded",
		slog.Int("discovered", len(links)),
		slog.Int("admitted", admitted))
}

// crawl drives the wave loop until the frontier drains, the budget is
// spent, or the context is cancelled. It returns the raw (not yet
// deduplicated) person records in deterministic accumulation order.
func (e *Engine) crawl(ctx context.Context, target model.Target, result *model.Result, fr *frontier.Frontier, filter *frontier.Filter) []model.Person {
	records := make([]model.Person, 0)

	wave := 0
	for fr.Len() > 0 {
		if ctx.Err() != nil {
			result.AddError(target.URL(), fmt.Errorf("run cancelled: %w", ctx.Err()))
			e.metrics.IncError(monitoring.ErrorTypeCancelled)
			break
		}

		wave++
		urls := fr.DrainWave()
		workers := e.workersFor(target)

		e.metrics.SetWorkers(workers)
		e.metrics.ObserveWaveSize(len(urls))
		e.logger.Info("processing wave",
			slog.Int("wave", wave),
			slog.Int("pages", len(urls)),
			slog.Int("workers", workers))

		outcomes := e.processWave(ctx, urls, workers)

		for i, out := range outcomes {
			if out.err != nil {
				result.AddError(urls[i], out.err)
				result.PagesSkipped++
				e.metrics.IncSkipped()
				e.metrics.IncError(out.errType)
				continue
			}

			result.PagesCrawled++
			e.metrics.IncCrawled()
			records = append(records, out.people...)

			for _, u := range filter.FilterAndRank(out.links) {
				if fr.Exhausted() {
					break
				}
				fr.Offer(u)
			}
		}

		e.metrics.SetFrontierSize(fr.Len())
	}

	return records
}

// processWave runs one wave's pages concurrently under the worker limit
// and returns their outcomes indexed like urls. Tasks never fail the
// group; failures live inside the outcomes.
func (e *Engine) processWave(ctx context.Context, urls []string, workers int) []pageOutcome {
	outcomes := make([]pageOutcome, len(urls))

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, pageURL := range urls {
		g.Go(func() error {
			start := time.Now()
			outcomes[i] = e.processPage(ctx, pageURL)
			e.metrics.ObservePageDuration(time.Since(start))
			return nil
		})
	}

	_ = g.Wait() // tasks always return nil
	return outcomes
}

// processPage fetches and extracts a single page. Both failure modes
// collapse into the same shape: an error plus its metrics label.
func (e *Engine) processPage(ctx context.Context, pageURL string) pageOutcome {
	page, err := e.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		e.logger.Debug("page fetch failed",
			slog.String("url", pageURL),
			slog.String("error", err.Error()))
		return pageOutcome{err: err, errType: monitoring.ErrorTypeFetch}
	}

	people, err := e.extractor.Extract(ctx, page)
	if err != nil {
		e.logger.Debug("extraction failed",
			slog.String("url", pageURL),
			slog.String("error", err.Error()))
		return pageOutcome{err: err, errType: monitoring.ErrorTypeExtract}
	}

	e.logger.Debug("page processed",
		slog.String("url", pageURL),
		slog.Int("links", len(page.Links)),
		slog.Int("candidates", len(people)))
	return pageOutcome{people: people, links: page.Links}
}

// workersFor sizes the next wave. An explicit per-target worker cap is
// used verbatim, even when the host could afford more; only when the
// target leaves it unset does the resource monitor size the wave from
// host pressure.
func (e *Engine) workersFor(target model.Target) int {
	if n := target.MaxWorkers(); n > 0 {
		return n
	}
	return e.monitor.OptimalWorkers()
}
