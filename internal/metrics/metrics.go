package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the quote engine.
type Metrics struct {
	Registry         *prometheus.Registry
	QuotesTotal      *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	ExtractionSource *prometheus.CounterVec
	CacheHitsTotal   prometheus.Counter
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	quotes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_requests_total",
			Help: "Link quote requests by outcome (ok or error code).",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quote_fetch_duration_seconds",
			Help:    "Outbound product page fetch latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	extractionSource := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_extraction_source_total",
			Help: "Which extraction strategy produced the price.",
		},
		[]string{"source"},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quote_cache_hits_total",
			Help: "Link quotes served from cache.",
		},
	)

	registry.MustRegister(quotes, fetchDuration, extractionSource, cacheHits)

	return &Metrics{
		Registry:         registry,
		QuotesTotal:      quotes,
		FetchDuration:    fetchDuration,
		ExtractionSource: extractionSource,
		CacheHitsTotal:   cacheHits,
	}
}

// ObserveFetch records one outbound fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncQuote counts a finished quote request by outcome.
func (m *Metrics) IncQuote(outcome string) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(outcome).Inc()
}

// IncExtraction counts the winning extraction strategy.
func (m *Metrics) IncExtraction(source string) {
	if m == nil {
		return
	}
	m.ExtractionSource.WithLabelValues(source).Inc()
}

// IncCacheHit counts a quote served from cache.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}
