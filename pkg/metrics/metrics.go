package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Breaker states as exported by the breaker gauge.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// Registry holds the Prometheus collectors of the dashboard.
// A nil *Registry is valid and records nothing.
type Registry struct {
	RefreshDuration *prometheus.HistogramVec
	RefreshErrors   *prometheus.CounterVec

	Actions *prometheus.CounterVec

	BreakerState *prometheus.GaugeVec

	HTTPRequests *prometheus.HistogramVec

	WebhookDeliveries *prometheus.CounterVec
}

// NewRegistry creates the collectors and registers them with reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		RefreshDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vault_dashboard_refresh_duration_seconds",
				Help:    "Duration of refresh cycles by task",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"task", "result"},
		),
		RefreshErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_dashboard_refresh_errors_total",
				Help: "Total number of failed refresh cycles by task",
			},
			[]string{"task"},
		),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_dashboard_actions_total",
				Help: "Total number of vault actions by kind and final status",
			},
			[]string{"kind", "status"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vault_dashboard_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
		HTTPRequests: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vault_dashboard_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		WebhookDeliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_dashboard_webhook_deliveries_total",
				Help: "Total number of webhook delivery attempts by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		r.RefreshDuration,
		r.RefreshErrors,
		r.Actions,
		r.BreakerState,
		r.HTTPRequests,
		r.WebhookDeliveries,
	)
	return r
}

func (r *Registry) ObserveRefresh(task string, seconds float64, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		r.RefreshErrors.WithLabelValues(task).Inc()
	}
	r.RefreshDuration.WithLabelValues(task, result).Observe(seconds)
}

func (r *Registry) RecordAction(kind, status string) {
	if r == nil {
		return
	}
	r.Actions.WithLabelValues(kind, status).Inc()
}

func (r *Registry) SetBreakerState(name string, state int) {
	if r == nil {
		return
	}
	r.BreakerState.WithLabelValues(name).Set(float64(state))
}

func (r *Registry) ObserveHTTP(method, route, status string, seconds float64) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(method, route, status).Observe(seconds)
}

func (r *Registry) RecordWebhook(outcome string) {
	if r == nil {
		return
	}
	r.WebhookDeliveries.WithLabelValues(outcome).Inc()
}
