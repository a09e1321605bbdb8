package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namespace prefixes every metric exported by leadscan.
const namespace = "leadscan"

// Error type labels recorded by IncError.
const (
	ErrorTypeFetch     = "fetch"
	ErrorTypeExtract   = "extract"
	ErrorTypeCancelled = "cancelled"
)

// Metrics holds the Prometheus collectors for scrape runs.
//
// All methods are safe to call on a nil receiver, which turns
// instrumentation into a no-op. Callers that never ask for metrics
// simply pass nil around.
type Metrics struct {
	registry *prometheus.Registry

	pagesCrawled   prometheus.Counter
	pagesSkipped   prometheus.Counter
	errorsTotal    *prometheus.CounterVec
	decisionMakers prometheus.Counter
	frontierSize   prometheus.Gauge
	waveSize       prometheus.Histogram
	workers        prometheus.Gauge
	pageDuration   prometheus.Histogram
}

// NewMetrics creates a Metrics value backed by its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pagesCrawled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_crawled_total",
			Help:      "Number of pages fetched and processed successfully.",
		}),
		pagesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_skipped_total",
			Help:      "Number of pages skipped because fetching or extraction failed.",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Number of errors recorded during scrape runs, by type.",
		}, []string{"type"}),
		decisionMakers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decision_makers_total",
			Help:      "Number of decision makers found after deduplication.",
		}),
		frontierSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frontier_size",
			Help:      "Number of URLs currently queued in the crawl frontier.",
		}),
		waveSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wave_size",
			Help:      "Number of pages processed per crawl wave.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Number of concurrent workers chosen for the current wave.",
		}),
		pageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Time spent fetching and extracting a single page.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		m.pagesCrawled,
		m.pagesSkipped,
		m.errorsTotal,
		m.decisionMakers,
		m.frontierSize,
		m.waveSize,
		m.workers,
		m.pageDuration,
	)
	return m
}

// Registry returns the private registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an HTTP handler that serves the registry contents.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncCrawled records one successfully processed page.
func (m *Metrics) IncCrawled() {
	if m == nil {
		return
	}
	m.pagesCrawled.Inc()
}

// IncSkipped records one page that was counted but not processed.
func (m *Metrics) IncSkipped() {
	if m == nil {
		return
	}
	m.pagesSkipped.Inc()
}

// IncError records one error of the given type.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(errorType).Inc()
}

// AddDecisionMakers records the number of unique people a run produced.
func (m *Metrics) AddDecisionMakers(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.decisionMakers.Add(float64(n))
}

// SetFrontierSize records the current frontier queue depth.
func (m *Metrics) SetFrontierSize(n int) {
	if m == nil {
		return
	}
	m.frontierSize.Set(float64(n))
}

// ObserveWaveSize records how many pages a wave contained.
func (m *Metrics) ObserveWaveSize(n int) {
	if m == nil {
		return
	}
	m.waveSize.Observe(float64(n))
}

// SetWorkers records the concurrency limit chosen for the current wave.
func (m *Metrics) SetWorkers(n int) {
	if m == nil {
		return
	}
	m.workers.Set(float64(n))
}

// ObservePageDuration records the wall-clock time one page task took.
func (m *Metrics) ObservePageDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.pageDuration.Observe(d.Seconds())
}
