// Package monitoring exposes the Prometheus metrics of the service.
package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	FollowupOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followup_messages_total",
			Help: "Follow-up e-mails by provider and delivery status",
		},
		[]string{"provider", "status"},
	)

	RecencyRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recency_worker_runs_total",
			Help: "Recency worker passes by result",
		},
		[]string{"result"},
	)

	StudentsNotContacted = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "students_not_contacted",
			Help: "Students tagged not_contacted_7d at the last worker pass",
		},
	)
)

var once sync.Once

// Init registers the collectors with the default registry. It is safe to
// call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, FollowupOutcomes, RecencyRuns, StudentsNotContacted)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
