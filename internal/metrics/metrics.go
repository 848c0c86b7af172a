// Package metrics provides Prometheus metrics for AlertView.
// It tracks accumulation runs, upstream page fetches and export generation
// to help identify slow upstreams and measure report freshness.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "alertview"
)

// Accumulation metrics track the paged fetch loop.
var (
	// RunsStartedTotal counts accumulation runs started.
	RunsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "Total number of accumulation runs started",
		},
	)

	// RunsFinishedTotal counts accumulation runs finished, by result.
	RunsFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_finished_total",
			Help:      "Total number of accumulation runs finished",
		},
		[]string{"result"}, // result: success, failure, superseded
	)

	// PagesFetchedTotal counts upstream pages fetched.
	PagesFetchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Total number of alert pages fetched from the upstream API",
		},
	)

	// PageFetchLatency measures the latency of a single page fetch.
	PageFetchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_fetch_latency_seconds",
			Help:      "Latency of one upstream page fetch in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// RunDuration measures the duration of a complete accumulation run.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete accumulation run in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	// AccumulatedAlerts tracks the size of the published alert set.
	AccumulatedAlerts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accumulated_alerts",
			Help:      "Number of alerts in the currently published set",
		},
	)

	// DiscoveredProperties tracks the size of the discovered-property set.
	DiscoveredProperties = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "discovered_properties",
			Help:      "Number of open-schema properties discovered across the published set",
		},
	)
)

// Export metrics track artifact generation.
var (
	// ExportsGeneratedTotal counts exports generated, by format.
	ExportsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_generated_total",
			Help:      "Total number of report exports generated",
		},
		[]string{"format"}, // format: csv, print
	)

	// ExportRows measures the number of rows per generated export.
	ExportRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_rows",
			Help:      "Number of rows per generated export",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
		[]string{"format"},
	)
)
