// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the service's collectors so they can be registered against
// any registry (the default one in main, a fresh one in tests).
type Metrics struct {
	Requests     *prometheus.CounterVec
	Latency      *prometheus.HistogramVec
	AuthOutcomes *prometheus.CounterVec
	OrderEvents  *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffeeshop",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coffeeshop",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AuthOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffeeshop",
			Name:      "auth_outcomes_total",
			Help:      "Request gate outcomes (accepted, renewed or an error code).",
		}, []string{"outcome"}),
		OrderEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffeeshop",
			Name:      "order_events_total",
			Help:      "order.placed events by result (published, failed, consumed, rejected).",
		}, []string{"result"}),
	}
	reg.MustRegister(m.Requests, m.Latency, m.AuthOutcomes, m.OrderEvents)
	return m
}
