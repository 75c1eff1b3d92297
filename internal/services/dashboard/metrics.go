package dashboard

import "github.com/prometheus/client_golang/prometheus"

const namespace = "cultiverse_dashboard"

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Selections        *prometheus.CounterVec // labels: zone, outcome={ok,unknown_zone}
	BroadcastPublish  *prometheus.CounterVec // labels: outcome={ok,error,breaker_open}
	BroadcastReceived *prometheus.CounterVec // labels: result={applied,own,duplicate,invalid,unknown_zone}
	HTTPRequests      *prometheus.CounterVec // labels: route, status
	BroadcastEnabled  prometheus.Gauge
}

func newCollectors() *Metrics {
	return &Metrics{
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Zone selection attempts by zone and outcome.",
		}, []string{"zone", "outcome"}),
		BroadcastPublish: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_publish_total",
			Help:      "Selection events published to the broker, by outcome.",
		}, []string{"outcome"}),
		BroadcastReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_received_total",
			Help:      "Selection events received from the broker, by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "status"}),
		BroadcastEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "broadcast_enabled",
			Help:      "1 when selection broadcast over MQTT is enabled, 0 otherwise.",
		}),
	}
}

// NewMetrics creates the collectors and registers them with the default
// Prometheus registry. Call once per process.
func NewMetrics() *Metrics {
	m := newCollectors()
	prometheus.MustRegister(
		m.Selections,
		m.BroadcastPublish,
		m.BroadcastReceived,
		m.HTTPRequests,
		m.BroadcastEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newCollectors()
}
