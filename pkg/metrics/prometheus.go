// Package metrics provides Prometheus metrics for the certification credit service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared between recorders and callers.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
	OutcomeInvalid   = "invalid"

	StatusOK    = "ok"
	StatusError = "error"

	labelOther = "other"
)

var scoreBuckets = []float64{0, 20, 40, 60, 80, 100}

// Manager holds every collector for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Matching and points
	matches        *prometheus.CounterVec
	matchScore     prometheus.Histogram
	pointsResolved *prometheus.CounterVec

	// Validity
	verdicts *prometheus.CounterVec

	// Aggregation
	aggregations       prometheus.Counter
	aggregationItems   prometheus.Histogram
	aggregationLatency prometheus.Histogram
	aggregationPoints  prometheus.Histogram

	// Catalog
	catalogEntries      prometheus.Gauge
	catalogLoads        *prometheus.CounterVec
	catalogLastLoadUnix prometheus.Gauge

	// Badge fetching
	badgeFetches      *prometheus.CounterVec
	badgeFetchLatency prometheus.Histogram
	badgeCacheHits    prometheus.Counter
	badgeCacheMisses  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "certcredit",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.matches = auto.NewCounterVec(
		m.counterOpts("matches_total", "Name match attempts by outcome"),
		[]string{"outcome"},
	)
	m.matchScore = auto.NewHistogram(
		m.histogramOpts("match_score", "Best similarity score per match attempt", scoreBuckets),
	)
	m.pointsResolved = auto.NewCounterVec(
		m.counterOpts("points_resolved_total", "Point resolutions by source"),
		[]string{"source"},
	)
	m.verdicts = auto.NewCounterVec(
		m.counterOpts("validity_verdicts_total", "Validity verdicts by state"),
		[]string{"state"},
	)

	m.aggregations = auto.NewCounter(
		m.counterOpts("aggregations_total", "Completed aggregations"),
	)
	m.aggregationItems = auto.NewHistogram(
		m.histogramOpts("aggregation_items", "Items per aggregation", []float64{0, 1, 2, 5, 10, 25, 50, 100}),
	)
	m.aggregationLatency = auto.NewHistogram(
		m.histogramOpts("aggregation_latency_milliseconds", "Aggregation latency in milliseconds", m.histogramBuckets),
	)
	m.aggregationPoints = auto.NewHistogram(
		m.histogramOpts("aggregation_total_points", "Total points per aggregation", []float64{0, 5, 10, 20, 40, 80, 160}),
	)

	m.catalogEntries = auto.NewGauge(
		m.gaugeOpts("catalog_entries", "Entries in the active catalog"),
	)
	m.catalogLoads = auto.NewCounterVec(
		m.counterOpts("catalog_loads_total", "Catalog load attempts by status"),
		[]string{"status"},
	)
	m.catalogLastLoadUnix = auto.NewGauge(
		m.gaugeOpts("catalog_last_load_unix", "Unix time of the last successful catalog load"),
	)

	m.badgeFetches = auto.NewCounterVec(
		m.counterOpts("badge_fetches_total", "Badge page fetches by status"),
		[]string{"status"},
	)
	m.badgeFetchLatency = auto.NewHistogram(
		m.histogramOpts("badge_fetch_latency_milliseconds", "Badge page fetch latency in milliseconds",
			[]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 20000}),
	)
	m.badgeCacheHits = auto.NewCounter(
		m.counterOpts("badge_cache_hits_total", "Badge cache hits"),
	)
	m.badgeCacheMisses = auto.NewCounter(
		m.counterOpts("badge_cache_misses_total", "Badge cache misses"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status code"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
}

func oneOf(v string, allowed ...string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return labelOther
}

// RecordMatch counts a match attempt and observes its best score.
func (m *Manager) RecordMatch(outcome string, score int) {
	if !m.enabled {
		return
	}
	m.matches.WithLabelValues(oneOf(outcome, OutcomeMatched, OutcomeUnmatched, OutcomeInvalid)).Inc()
	if outcome != OutcomeInvalid {
		m.matchScore.Observe(float64(score))
	}
}

// RecordPointsSource counts a point resolution by source.
func (m *Manager) RecordPointsSource(source string) {
	if !m.enabled {
		return
	}
	m.pointsResolved.WithLabelValues(source).Inc()
}

// RecordVerdict counts a validity verdict by state.
func (m *Manager) RecordVerdict(state string) {
	if !m.enabled {
		return
	}
	m.verdicts.WithLabelValues(state).Inc()
}

// RecordAggregation records one completed aggregation.
func (m *Manager) RecordAggregation(items int, total float64, elapsed time.Duration) {
	if !m.enabled {
		return
	}
	m.aggregations.Inc()
	m.aggregationItems.Observe(float64(items))
	m.aggregationPoints.Observe(total)
	m.aggregationLatency.Observe(float64(elapsed.Microseconds()) / 1000)
}

// RecordCatalogLoad counts a load attempt. On success it also publishes
// the entry count and load time.
func (m *Manager) RecordCatalogLoad(status string, entries int, at time.Time) {
	if !m.enabled {
		return
	}
	m.catalogLoads.WithLabelValues(oneOf(status, StatusOK, StatusError)).Inc()
	if status != StatusOK {
		m.catalogEntries.Set(0)
		return
	}
	m.catalogEntries.Set(float64(entries))
	m.catalogLastLoadUnix.Set(float64(at.Unix()))
}

// RecordBadgeFetch counts a fetch and observes its latency.
func (m *Manager) RecordBadgeFetch(status string, elapsed time.Duration) {
	if !m.enabled {
		return
	}
	m.badgeFetches.WithLabelValues(oneOf(status, StatusOK, StatusError)).Inc()
	m.badgeFetchLatency.Observe(float64(elapsed.Milliseconds()))
}

// RecordBadgeCache counts a cache lookup.
func (m *Manager) RecordBadgeCache(hit bool) {
	if !m.enabled {
		return
	}
	if hit {
		m.badgeCacheHits.Inc()
		return
	}
	m.badgeCacheMisses.Inc()
}

// RecordHTTPRequest records an HTTP request and its duration in milliseconds.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// Package-level recorders use the global manager.

// RecordMatch counts a match attempt on the global manager.
func RecordMatch(outcome string, score int) { globalManager.RecordMatch(outcome, score) }

// RecordPointsSource counts a point resolution on the global manager.
func RecordPointsSource(source string) { globalManager.RecordPointsSource(source) }

// RecordVerdict counts a validity verdict on the global manager.
func RecordVerdict(state string) { globalManager.RecordVerdict(state) }

// RecordAggregation records an aggregation on the global manager.
func RecordAggregation(items int, total float64, elapsed time.Duration) {
	globalManager.RecordAggregation(items, total, elapsed)
}

// RecordCatalogLoad records a catalog load on the global manager.
func RecordCatalogLoad(status string, entries int, at time.Time) {
	globalManager.RecordCatalogLoad(status, entries, at)
}

// RecordBadgeFetch records a badge fetch on the global manager.
func RecordBadgeFetch(status string, elapsed time.Duration) {
	globalManager.RecordBadgeFetch(status, elapsed)
}

// RecordBadgeCache records a cache lookup on the global manager.
func RecordBadgeCache(hit bool) { globalManager.RecordBadgeCache(hit) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint records an endpoint error on the global manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// RecordErrorByType records a typed error on the global manager.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
