package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names
const (
	MetricHTTPRequestsTotal      = "http_requests_total"
	MetricHTTPRequestDuration    = "http_request_duration_seconds"
	MetricOrdersCreatedTotal     = "orders_created_total"
	MetricOrderNumberCollisions  = "order_number_collisions_total"
	MetricOrderStatusUpdateTotal = "order_status_updates_total"
)

// Metrics owns a private Prometheus registry. It is safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	ordersCreated     *prometheus.CounterVec
	numberCollisions  prometheus.Counter
	statusTransitions *prometheus.CounterVec
}

// NewMetrics registers the HTTP and order collectors plus the Go runtime collectors
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricHTTPRequestsTotal,
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      MetricHTTPRequestDuration,
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricOrdersCreatedTotal,
			Help:      "Orders persisted, by payment method and numbering scheme.",
		}, []string{"payment_method", "numbering"}),
		numberCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricOrderNumberCollisions,
			Help:      "Order number candidates rejected by the unique index.",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricOrderStatusUpdateTotal,
			Help:      "Order status changes applied, by target status.",
		}, []string{"status"}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.ordersCreated,
		m.numberCollisions,
		m.statusTransitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one served HTTP request. route is the matched pattern, not the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// OrderCreated counts a persisted order. numbering is "sequential" or "fallback".
func (m *Metrics) OrderCreated(paymentMethod, numbering string) {
	m.ordersCreated.WithLabelValues(paymentMethod, numbering).Inc()
}

// NumberCollision counts a rejected order number candidate
func (m *Metrics) NumberCollision() {
	m.numberCollisions.Inc()
}

// StatusUpdated counts an applied status change
func (m *Metrics) StatusUpdated(status string) {
	m.statusTransitions.WithLabelValues(status).Inc()
}

// Registry exposes the underlying registry for tests and custom collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
