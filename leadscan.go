package leadscan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kvasirlabs/leadscan/internal/engine"
	"github.com/kvasirlabs/leadscan/internal/model"
)

// Result is the aggregate outcome of scraping one site.
type Result = model.Result

// Person is one decision-maker record found on a site.
type Person = model.Person

// Scrape crawls one site and returns the decision makers it names.
//
// An error is returned only when the run cannot start at all: an invalid
// URL, a missing API key, or a browser that fails to launch. Once
// crawling begins, individual page failures are folded into the Result
// as error entries and skipped counts, and Scrape returns the partial
// result with a nil error.
func Scrape(ctx context.Context, rawURL string, opts ...Option) (*Result, error) {
	return scrapeSite(ctx, newScrapeConfig(opts...), rawURL)
}

// ScrapeMany crawls several sites strictly in sequence and returns one
// Result per input URL, in input order.
//
// Sites are isolated from each other: each gets its own fetcher,
// frontier, and dedup state, and a site whose run fails (or panics)
// yields an error-only Result for that site without aborting the rest.
// Pages within one site are still fetched concurrently.
func ScrapeMany(ctx context.Context, rawURLs []string, opts ...Option) []*Result {
	cfg := newScrapeConfig(opts...)

	results := make([]*Result, 0, len(rawURLs))
	for _, rawURL := range rawURLs {
		results = append(results, scrapeOne(ctx, cfg, rawURL))
	}
	return results
}

// scrapeOne runs a single site for ScrapeMany, converting every failure,
// panics included, into an error-only result.
func scrapeOne(ctx context.Context, cfg *scrapeConfig, rawURL string) (result *Result) {
	defer recoverScrape(cfg, rawURL, &result)

	res, err := scrapeSite(ctx, cfg, rawURL)
	if err != nil {
		cfg.logger.Error("site scrape failed",
			slog.String("url", rawURL),
			slog.Any("error", err))
		return model.ErrorResult(uuid.NewString(), rawURL, err)
	}
	return res
}

// recoverScrape converts a panic escaping a single-site run into an
// error-only result. Deferred fetcher cleanup has already run by the
// time the panic unwinds to this frame.
func recoverScrape(cfg *scrapeConfig, rawURL string, result **Result) {
	r := recover()
	if r == nil {
		return
	}

	cfg.logger.Error("site scrape panicked",
		slog.String("url", rawURL),
		slog.Any("panic", r))
	*result = model.ErrorResult(uuid.NewString(), rawURL, fmt.Errorf("scrape panicked: %v", r))
}

// scrapeSite assembles an isolated engine for one site and runs it.
// Every call builds fresh collaborators so no connection, robots, or
// dedup state leaks between sites in a batch.
func scrapeSite(ctx context.Context, cfg *scrapeConfig, rawURL string) (*Result, error) {
	target, err := model.NewTarget(rawURL, cfg.maxPages, cfg.maxWorkers)
	if err != nil {
		return nil, err
	}

	extractor, err := cfg.newExtractor()
	if err != nil {
		return nil, err
	}

	fetcher, err := cfg.newFetcher(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := fetcher.Close(); cerr != nil {
			cfg.logger.Warn("failed to close fetcher", slog.Any("error", cerr))
		}
	}()

	eng := engine.New(fetcher, extractor,
		engine.WithLogger(cfg.logger),
		engine.WithMetrics(cfg.metrics),
	)
	return eng.Run(ctx, target)
}
