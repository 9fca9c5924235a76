// Package metrics defines the Prometheus metric collectors used across the
// pipeline and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the pipeline.
type Metrics struct {
	RecordsExtracted   prometheus.Counter
	RecordsSkipped     prometheus.Counter
	TermsIndexed       prometheus.Gauge
	MatrixBuildSeconds prometheus.Histogram
	SearchesTotal      *prometheus.CounterVec
	SearchLatency      prometheus.Histogram
	ResultsPerQuery    prometheus.Histogram
	StageRunsTotal     *prometheus.CounterVec
}

// New creates the pipeline metrics and registers them with the given
// registerer. Passing nil registers with the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		RecordsExtracted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "corpus_records_extracted_total",
				Help: "Total corpus records with a usable abstract.",
			},
		),
		RecordsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "corpus_records_skipped_total",
				Help: "Total corpus records skipped for missing abstract and extract.",
			},
		),
		TermsIndexed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_terms",
				Help: "Number of distinct terms in the current index.",
			},
		),
		MatrixBuildSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "matrix_build_duration_seconds",
				Help:    "Term-document matrix build duration in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searches_total",
				Help: "Total query searches by result type (hit, zero_result).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Per-query ranking latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		ResultsPerQuery: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of results returned per query.",
				Buckets: []float64{0, 1, 5, 10, 20, 40},
			},
		),
		StageRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stage_runs_total",
				Help: "Total stage runs by stage and status.",
			},
			[]string{"stage", "status"},
		),
	}

	reg.MustRegister(
		m.RecordsExtracted,
		m.RecordsSkipped,
		m.TermsIndexed,
		m.MatrixBuildSeconds,
		m.SearchesTotal,
		m.SearchLatency,
		m.ResultsPerQuery,
		m.StageRunsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
