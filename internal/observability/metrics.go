package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard client.
type Metrics struct {
	RefreshCycles    prometheus.Counter
	RefreshDuration  prometheus.Histogram
	SchedulerRunning prometheus.Gauge

	// Backend request metrics.
	RequestDuration *prometheus.HistogramVec // label: op={fields,alerts,create_field,recompute}
	FetchErrors     *prometheus.CounterVec   // label: op

	// View state metrics.
	FieldsTracked   prometheus.Gauge
	AlertsDisplayed prometheus.Gauge
	MarkersCreated  prometheus.Counter
	MarkersRestyled prometheus.Counter
}

// NewMetrics creates and registers all client metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldwatch",
			Name:      "refresh_cycles_total",
			Help:      "Completed full refresh cycles (fields then alerts).",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fieldwatch",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fields-then-alerts refresh cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fieldwatch",
			Name:      "scheduler_running",
			Help:      "1 while the refresh scheduler is active, 0 when stopped.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fieldwatch",
			Name:      "backend_request_duration_seconds",
			Help:      "Backend API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"op"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fieldwatch",
			Name:      "fetch_errors_total",
			Help:      "Backend requests that failed, by operation.",
		}, []string{"op"}),
		FieldsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fieldwatch",
			Name:      "fields_tracked",
			Help:      "Fields in the last successfully fetched collection.",
		}),
		AlertsDisplayed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fieldwatch",
			Name:      "alerts_displayed",
			Help:      "Alert entries currently rendered (after truncation).",
		}),
		MarkersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldwatch",
			Name:      "markers_created_total",
			Help:      "Map markers created over the session.",
		}),
		MarkersRestyled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldwatch",
			Name:      "markers_restyled_total",
			Help:      "In-place marker style updates.",
		}),
	}

	prometheus.MustRegister(
		m.RefreshCycles,
		m.RefreshDuration,
		m.SchedulerRunning,
		m.RequestDuration,
		m.FetchErrors,
		m.FieldsTracked,
		m.AlertsDisplayed,
		m.MarkersCreated,
		m.MarkersRestyled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshCycles:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fieldwatch", Name: "refresh_cycles_total"}),
		RefreshDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fieldwatch", Name: "refresh_duration_seconds"}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fieldwatch", Name: "scheduler_running"}),
		RequestDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "fieldwatch", Name: "backend_request_duration_seconds"}, []string{"op"}),
		FetchErrors:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fieldwatch", Name: "fetch_errors_total"}, []string{"op"}),
		FieldsTracked:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fieldwatch", Name: "fields_tracked"}),
		AlertsDisplayed:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fieldwatch", Name: "alerts_displayed"}),
		MarkersCreated:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fieldwatch", Name: "markers_created_total"}),
		MarkersRestyled:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fieldwatch", Name: "markers_restyled_total"}),
	}
}
