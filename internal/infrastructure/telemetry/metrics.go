package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "quotebook"

// Metrics holds the Prometheus collectors exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	quotesPriced     *prometheus.CounterVec
	quotesSubmitted  *prometheus.CounterVec
	quoteTransitions *prometheus.CounterVec
	bookings         *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	jobRuns          *prometheus.CounterVec
	jobDuration      *prometheus.HistogramVec
}

// NewMetrics creates a registry with the process and Go runtime collectors
// plus the application collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		quotesPriced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pricing",
			Name:      "evaluations_total",
			Help:      "Number of price evaluations by service type.",
		}, []string{"service_type"}),
		quotesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "quotes",
			Name:      "submitted_total",
			Help:      "Number of quotes persisted by service type.",
		}, []string{"service_type"}),
		quoteTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "quotes",
			Name:      "transitions_total",
			Help:      "Number of quote status transitions by target status.",
		}, []string{"status"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "bookings",
			Name:      "events_total",
			Help:      "Number of booking lifecycle events by kind.",
		}, []string{"event"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "notifications",
			Name:      "queued_total",
			Help:      "Number of notifications queued by channel and template.",
		}, []string{"channel", "template"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Total number of scheduled job runs.",
		}, []string{"job", "success"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "job_run_duration_seconds",
			Help:      "Duration of scheduled job runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}, []string{"job"}),
	}

	m.registry.MustRegister(
		m.httpInFlight, m.httpRequests, m.httpDuration,
		m.quotesPriced, m.quotesSubmitted, m.quoteTransitions,
		m.bookings, m.notifications,
		m.jobRuns, m.jobDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RequestStarted increments the in-flight gauge and returns the matching decrement.
func (m *Metrics) RequestStarted() func() {
	m.httpInFlight.Inc()
	return m.httpInFlight.Dec
}

// ObserveRequest records one finished HTTP request. route is the matched
// route pattern, never the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// PriceEvaluated counts a pricing engine evaluation.
func (m *Metrics) PriceEvaluated(serviceType string) {
	m.quotesPriced.WithLabelValues(serviceType).Inc()
}

// QuoteSubmitted counts a persisted quote.
func (m *Metrics) QuoteSubmitted(serviceType string) {
	m.quotesSubmitted.WithLabelValues(serviceType).Inc()
}

// QuoteTransitioned counts a quote moving to status.
func (m *Metrics) QuoteTransitioned(status string) {
	m.quoteTransitions.WithLabelValues(status).Inc()
}

// BookingEvent counts a booking lifecycle event such as created or cancelled.
func (m *Metrics) BookingEvent(event string) {
	m.bookings.WithLabelValues(event).Inc()
}

// NotificationQueued counts a queued notification.
func (m *Metrics) NotificationQueued(channel, template string) {
	m.notifications.WithLabelValues(channel, template).Inc()
}

// JobRun records a scheduled job execution.
func (m *Metrics) JobRun(job string, elapsed time.Duration, err error) {
	m.jobRuns.WithLabelValues(job, strconv.FormatBool(err == nil)).Inc()
	m.jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}
