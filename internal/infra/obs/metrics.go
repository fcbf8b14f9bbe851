package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	busMessages  *prometheus.CounterVec
	busDuration  *prometheus.HistogramVec
	outboxEvents *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentcam",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rentcam",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		busMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentcam",
			Name:      "bus_messages_total",
			Help:      "Commands and queries handled, by outcome.",
		}, []string{"kind", "key", "outcome"}),
		busDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rentcam",
			Name:      "bus_message_duration_seconds",
			Help:      "Command and query handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "key"}),
		outboxEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rentcam",
			Name:      "outbox_events_total",
			Help:      "Outbox relay deliveries by event name and outcome.",
		}, []string{"event", "outcome"}),
	}
	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.busMessages,
		m.busDuration,
		m.outboxEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveHTTP(method, route, status string, took time.Duration) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

// Observe implements the bus middleware observer.
func (m *Metrics) Observe(kind, key string, took time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.busMessages.WithLabelValues(kind, key, outcome).Inc()
	m.busDuration.WithLabelValues(kind, key).Observe(took.Seconds())
}

func (m *Metrics) ObserveDelivery(event string, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.outboxEvents.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
