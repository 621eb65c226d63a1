package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics exposes request-level prometheus instruments.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP instruments on the default registry.
func NewHTTPMetrics() *HTTPMetrics {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leadrotor_http_requests_total",
			Help: "Count of HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leadrotor_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	prometheus.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

// GinMiddleware records per-request metrics.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// DistributionMetrics counts distributor and rotation outcomes.
type DistributionMetrics struct {
	assignments *prometheus.CounterVec
	roundResets prometheus.Counter
	manualReset prometheus.Counter
}

// NewDistributionMetrics registers the domain instruments.
func NewDistributionMetrics() *DistributionMetrics {
	m := &DistributionMetrics{
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leadrotor_assignments_total",
			Help: "Count of distribution pair outcomes.",
		}, []string{"outcome"}),
		roundResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leadrotor_round_resets_total",
			Help: "Count of automatic round completions.",
		}),
		manualReset: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leadrotor_manual_resets_total",
			Help: "Count of manually reset leads.",
		}),
	}
	prometheus.MustRegister(m.assignments, m.roundResets, m.manualReset)
	return m
}

// RecordAssignment increments per-outcome assignment counts.
func (m *DistributionMetrics) RecordAssignment(outcome string) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(strings.TrimSpace(outcome)).Inc()
}

// RecordRoundReset increments automatic round completion counts.
func (m *DistributionMetrics) RecordRoundReset() {
	if m == nil {
		return
	}
	m.roundResets.Inc()
}

// RecordManualReset adds manually reset lead counts.
func (m *DistributionMetrics) RecordManualReset(leads int) {
	if m == nil || leads <= 0 {
		return
	}
	m.manualReset.Add(float64(leads))
}
