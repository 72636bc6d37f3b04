package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	RecordsMutated      *prometheus.CounterVec
	ViewDuration        *prometheus.HistogramVec
	ViewRecords         *prometheus.GaugeVec
	SignInAttempts      *prometheus.CounterVec
	AuditEvents         *prometheus.CounterVec
	RevocationCheck     prometheus.Histogram
}

// New creates and registers all metrics on reg. Pass prometheus.DefaultRegisterer
// in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "practiceadmin_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route pattern",
			Buckets: latencyBuckets,
		}, []string{"route", "method", "status"}),
		RecordsMutated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "practiceadmin_records_mutated_total",
			Help: "Records created, updated or deleted, by entity",
		}, []string{"entity", "operation"}),
		ViewDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "practiceadmin_view_duration_seconds",
			Help:    "Duration of table view builds (snapshot load plus transform)",
			Buckets: latencyBuckets,
		}, []string{"entity"}),
		ViewRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "practiceadmin_view_records",
			Help: "Records in the most recent table view, by entity",
		}, []string{"entity"}),
		SignInAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "practiceadmin_sign_in_attempts_total",
			Help: "Sign-in attempts by outcome",
		}, []string{"outcome"}),
		AuditEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "practiceadmin_audit_events_total",
			Help: "Audit events delivered per sink and outcome",
		}, []string{"sink", "outcome"}),
		RevocationCheck: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "practiceadmin_token_revocation_check_duration_seconds",
			Help:    "Latency of token revocation lookups",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
	}
}

// ObserveRequest records the duration of one HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(route, method, status).Observe(time.Since(start).Seconds())
}

// IncrementMutation counts one create, update or delete.
func (m *Metrics) IncrementMutation(entity, operation string) {
	if m == nil {
		return
	}
	m.RecordsMutated.WithLabelValues(entity, operation).Inc()
}

// ObserveView records how long a table view took and how many records it held.
// Call with time.Now() taken at the start of the operation.
func (m *Metrics) ObserveView(entity string, records int, start time.Time) {
	if m == nil {
		return
	}
	m.ViewDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())
	m.ViewRecords.WithLabelValues(entity).Set(float64(records))
}

// IncrementSignIn counts a sign-in attempt.
func (m *Metrics) IncrementSignIn(outcome string) {
	if m == nil {
		return
	}
	m.SignInAttempts.WithLabelValues(outcome).Inc()
}

// IncrementAudit counts an audit delivery.
func (m *Metrics) IncrementAudit(sink, outcome string) {
	if m == nil {
		return
	}
	m.AuditEvents.WithLabelValues(sink, outcome).Inc()
}
