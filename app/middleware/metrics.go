package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Ticket email dispatch outcomes partitioned by result
	ticketEmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_emails_total",
			Help: "Total number of ticket email dispatch attempts",
		},
		[]string{"result"},
	)

	// Tickets inserted through Excel import
	ticketsImportedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_imported_total",
			Help: "Total number of tickets inserted via Excel import",
		},
	)
)

// Metrics returns a Fiber v3 middleware that records basic Prometheus metrics.
// Labels are kept low-cardinality by using the matched route path when available.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path // Use route template to avoid high cardinality
		}

		labels := prometheus.Labels{
			"method": method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())

		return err
	}
}

// RecordEmailDispatch counts one email dispatch attempt by result
func RecordEmailDispatch(result string) {
	ticketEmailsTotal.WithLabelValues(result).Inc()
}

// RecordImportedTickets counts tickets inserted by an Excel import
func RecordImportedTickets(n int) {
	if n > 0 {
		ticketsImportedTotal.Add(float64(n))
	}
}
