package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scoring service.
type Metrics struct {
	SessionsTotal   *prometheus.CounterVec // labels: outcome={scored,failed}
	StageErrors     *prometheus.CounterVec // labels: stage, kind
	ScoringDuration prometheus.Histogram

	// Weather overlay metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error}
	WeatherAPIDuration prometheus.Histogram
	WeatherEnabled     prometheus.Gauge

	// Audit metrics.
	AuditAppends          *prometheus.CounterVec // labels: outcome={success,error}
	AuditAppendDuration   prometheus.Histogram
	HeaderInitializations prometheus.Counter
	StreamPublishes       *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SessionsTotal,
		m.StageErrors,
		m.ScoringDuration,
		m.WeatherRequests,
		m.WeatherAPIDuration,
		m.WeatherEnabled,
		m.AuditAppends,
		m.AuditAppendDuration,
		m.HeaderInitializations,
		m.StreamPublishes,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_risk",
			Name:      "sessions_total",
			Help:      "Completed scoring sessions by outcome.",
		}, []string{"outcome"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_risk",
			Name:      "stage_errors_total",
			Help:      "Pipeline stage failures by stage and error kind.",
		}, []string{"stage", "kind"}),
		ScoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "health_risk",
			Name:      "scoring_duration_seconds",
			Help:      "Duration of a complete scoring session, persistence included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_risk",
			Name:      "weather_requests_total",
			Help:      "Weather service requests by outcome.",
		}, []string{"outcome"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "health_risk",
			Name:      "weather_api_duration_seconds",
			Help:      "Weather service request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		WeatherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "health_risk",
			Name:      "weather_overlay_enabled",
			Help:      "1 when the live weather overlay is enabled, 0 otherwise.",
		}),
		AuditAppends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_risk",
			Name:      "audit_appends_total",
			Help:      "Audit destination appends by outcome.",
		}, []string{"outcome"}),
		AuditAppendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "health_risk",
			Name:      "audit_append_duration_seconds",
			Help:      "Audit append duration in seconds, header initialization included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		HeaderInitializations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "health_risk",
			Name:      "audit_header_initializations_total",
			Help:      "Header rows written to empty audit destinations.",
		}),
		StreamPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_risk",
			Name:      "audit_stream_publishes_total",
			Help:      "Scored events published to the audit event stream by outcome.",
		}, []string{"outcome"}),
	}
}
