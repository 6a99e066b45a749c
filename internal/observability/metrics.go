// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	ListingsFetched  *prometheus.CounterVec
	ListingsDropped  *prometheus.CounterVec
	ListingsInserted prometheus.Counter
	SourceErrors     *prometheus.CounterVec

	// Validation metrics
	ListingsValidated prometheus.Counter
	ListingsAuthentic prometheus.Counter
	ListingsRejected  prometheus.Counter
	CheckFailures     *prometheus.CounterVec

	// Scoring metrics
	OpportunitiesScored *prometheus.CounterVec

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  prometheus.Histogram

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "property_lab"
	}

	return &Metrics{
		ListingsFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "listings_fetched_total",
			Help:      "Total number of raw listings fetched by source",
		}, []string{"source"}),
		ListingsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "listings_dropped_total",
			Help:      "Total number of raw listings dropped during normalization by reason",
		}, []string{"reason"}),
		ListingsInserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "listings_inserted_total",
			Help:      "Total number of listings persisted",
		}),
		SourceErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "source_errors_total",
			Help:      "Total number of source fetch failures by source",
		}, []string{"source"}),

		ListingsValidated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "listings_validated_total",
			Help:      "Total number of listings run through authenticity checks",
		}),
		ListingsAuthentic: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "listings_authentic_total",
			Help:      "Total number of listings judged authentic",
		}),
		ListingsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "listings_rejected_total",
			Help:      "Total number of listings rejected",
		}),
		CheckFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "check_failures_total",
			Help:      "Total number of failed authenticity checks by check name",
		}, []string{"check"}),

		OpportunitiesScored: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "opportunities_scored_total",
			Help:      "Total number of opportunities scored by category",
		}, []string{"category"}),

		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordFetched counts raw listings delivered by a source.
func RecordFetched(source string, n int) {
	DefaultMetrics.ListingsFetched.WithLabelValues(source).Add(float64(n))
}

// RecordDropped counts normalization drops for one reason.
func RecordDropped(reason string, n int) {
	DefaultMetrics.ListingsDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordInserted counts persisted listings.
func RecordInserted(n int) {
	DefaultMetrics.ListingsInserted.Add(float64(n))
}

// RecordSourceError counts a source fetch failure.
func RecordSourceError(source string) {
	DefaultMetrics.SourceErrors.WithLabelValues(source).Inc()
}

// RecordValidation counts one validation verdict.
func RecordValidation(authentic bool) {
	DefaultMetrics.ListingsValidated.Inc()
	if authentic {
		DefaultMetrics.ListingsAuthentic.Inc()
	} else {
		DefaultMetrics.ListingsRejected.Inc()
	}
}

// RecordCheckFailure counts a failed authenticity check.
func RecordCheckFailure(check string) {
	DefaultMetrics.CheckFailures.WithLabelValues(check).Inc()
}

// RecordOpportunity counts a scored opportunity.
func RecordOpportunity(category string) {
	DefaultMetrics.OpportunitiesScored.WithLabelValues(category).Inc()
}

// RecordPipelineRun records a pipeline run outcome.
func RecordPipelineRun(status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.PipelineDuration.Observe(durationSeconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
