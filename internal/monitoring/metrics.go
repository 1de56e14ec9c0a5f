package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Pipeline metrics
	WebhookRequestsTotal  *prometheus.CounterVec
	PipelineStageDuration *prometheus.HistogramVec
	DuplicateDeliveries   prometheus.Counter

	// Embedding provider metrics
	EmbeddingLatency  prometheus.Histogram
	EmbeddingFailures prometheus.Counter

	// Storage metrics
	DBQueryDuration *prometheus.HistogramVec

	// Business metrics
	CheckinsWritten    prometheus.Counter
	ClientsAutoCreated prometheus.Counter
}

var metrics *Metrics

// Init initializes all Prometheus metrics
func Init() *Metrics {
	if metrics != nil {
		return metrics
	}

	metrics = &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Pipeline metrics
		WebhookRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_requests_total",
				Help: "Total number of inbound webhook check-ins",
			},
			[]string{"status"},
		),
		PipelineStageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pipeline_stage_duration_seconds",
				Help:    "Ingestion pipeline stage duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"stage"},
		),
		DuplicateDeliveries: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webhook_duplicate_deliveries_total",
				Help: "Total number of redelivered webhook events skipped",
			},
		),

		// Embedding provider metrics
		EmbeddingLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "embedding_latency_seconds",
				Help:    "Embedding provider response latency in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20},
			},
		),
		EmbeddingFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "embedding_failures_total",
				Help: "Total number of absorbed embedding provider failures",
			},
		),

		// Storage metrics
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_type"},
		),

		// Business metrics
		CheckinsWritten: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "checkins_written_total",
				Help: "Total number of check-in records persisted",
			},
		),
		ClientsAutoCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "clients_auto_created_total",
				Help: "Total number of clients created by the ingestion pipeline",
			},
		),
	}

	return metrics
}

// Get returns the global metrics instance
func Get() *Metrics {
	if metrics == nil {
		return Init()
	}
	return metrics
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware is a Gin middleware for collecting HTTP metrics
func MetricsMiddleware() gin.HandlerFunc {
	m := Get()
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		// Track in-flight requests
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		// Process request
		c.Next()

		// Record metrics
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// RecordWebhookRequest records an inbound webhook check-in outcome
func RecordWebhookRequest(status string) {
	Get().WebhookRequestsTotal.WithLabelValues(status).Inc()
}

// RecordPipelineStage records an ingestion pipeline stage duration
func RecordPipelineStage(stage string, duration time.Duration) {
	Get().PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordDuplicateDelivery records a skipped redelivered event
func RecordDuplicateDelivery() {
	Get().DuplicateDeliveries.Inc()
}

// RecordEmbeddingLatency records embedding provider latency
func RecordEmbeddingLatency(duration time.Duration) {
	Get().EmbeddingLatency.Observe(duration.Seconds())
}

// RecordEmbeddingFailure records an absorbed embedding provider failure
func RecordEmbeddingFailure() {
	Get().EmbeddingFailures.Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(queryType string, duration time.Duration) {
	Get().DBQueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
}

// RecordCheckinWritten records a persisted check-in
func RecordCheckinWritten() {
	Get().CheckinsWritten.Inc()
}

// RecordClientAutoCreated records a client created by the pipeline
func RecordClientAutoCreated() {
	Get().ClientsAutoCreated.Inc()
}
