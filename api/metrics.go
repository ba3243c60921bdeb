package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "vatcalc"

// Metrics are the server's Prometheus collectors
type Metrics struct {
	calculations *prometheus.CounterVec
	rateUpdates  *prometheus.CounterVec
	requests     *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "calculations_total",
			Help:      "Calculations served, by rate and whether a result was produced.",
		}, []string{"rate", "outcome"}),
		rateUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rate_updates_total",
			Help:      "Rate store updates, by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}

	reg.MustRegister(m.calculations, m.rateUpdates, m.requests)
	return m
}
