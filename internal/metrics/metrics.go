// Package metrics provides the Prometheus metrics for scrape runs.
package metrics

import (
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/feed"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace prefixes every metric name.
	Namespace = "startup_scout"

	resultPresent = "present"
	resultAbsent  = "absent"
)

// Metrics holds the scrape metrics. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	RunsTotal          prometheus.Counter
	RunDuration        prometheus.Histogram
	ResultsReturned    prometheus.Histogram
	SourcesFailed      *prometheus.CounterVec
	FeedArticles       *prometheus.CounterVec
	FeedDuration       prometheus.Histogram
	ArticlesFiltered   prometheus.Counter
	Enrichments        *prometheus.CounterVec
	EnrichmentDuration prometheus.Histogram
	EnrichmentInFlight prometheus.Gauge
}

// New creates and registers the metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Total number of scrape runs.",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a scrape run.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		ResultsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_results",
			Help:      "Deduplicated results returned per run.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		SourcesFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sources_failed_total",
			Help:      "Sources that contributed nothing, by reason.",
		}, []string{"reason"}),
		FeedArticles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "feed_articles_total",
			Help:      "Articles parsed from feeds, by source.",
		}, []string{"source"}),
		FeedDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Time to fetch and parse a feed.",
			Buckets:   prometheus.DefBuckets,
		}),
		ArticlesFiltered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "articles_filtered_out_total",
			Help:      "Articles dropped by the date or region filter.",
		}),
		Enrichments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "enrichments_total",
			Help:      "Completed enrichments, by whether a company name was found.",
		}, []string{"company"}),
		EnrichmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "enrichment_duration_seconds",
			Help:      "Time to enrich one article, including limiter wait.",
			Buckets:   prometheus.DefBuckets,
		}),
		EnrichmentInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "enrichment_in_flight",
			Help:      "Enrichment tasks currently holding a limiter slot.",
		}),
	}
}

// RunCompleted records one finished run.
func (m *Metrics) RunCompleted(elapsed time.Duration, results int) {
	if m == nil {
		return
	}
	m.RunsTotal.Inc()
	m.RunDuration.Observe(elapsed.Seconds())
	m.ResultsReturned.Observe(float64(results))
}

// SourceFailed records a source that contributed nothing.
func (m *Metrics) SourceFailed(reason string) {
	if m == nil {
		return
	}
	m.SourcesFailed.WithLabelValues(reason).Inc()
}

// ArticlesDropped records articles removed by filtering.
func (m *Metrics) ArticlesDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ArticlesFiltered.Add(float64(n))
}

// FeedFetched implements feed.Observer.
func (m *Metrics) FeedFetched(sourceName string, articles int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FeedArticles.WithLabelValues(sourceName).Add(float64(articles))
	m.FeedDuration.Observe(elapsed.Seconds())
}

// FeedFailed implements feed.Observer.
func (m *Metrics) FeedFailed(_ string, errType feed.ErrorType) {
	m.SourceFailed("feed_" + string(errType))
}

// EnrichmentCompleted implements enrich.Observer.
func (m *Metrics) EnrichmentCompleted(elapsed time.Duration, result domain.EnrichedResult) {
	if m == nil {
		return
	}
	label := resultAbsent
	if result.CompanyName != "" {
		label = resultPresent
	}
	m.Enrichments.WithLabelValues(label).Inc()
	m.EnrichmentDuration.Observe(elapsed.Seconds())
}

// SetInFlight is a limiter.Observer.
func (m *Metrics) SetInFlight(n int) {
	if m == nil {
		return
	}
	m.EnrichmentInFlight.Set(float64(n))
}
