package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "school_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "school_register_total",
			Help: "Total number of user registrations",
		},
	)

	// School token issuance counter
	SchoolTokenCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "school_token_issued_total",
			Help: "Total number of school context tokens issued",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_token", "missing_school_token", "db_error" etc.
	)

	// Events published by kind
	EventsPublishedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_events_published_total",
			Help: "Total number of events published on the bus by kind",
		},
		[]string{"kind"},
	)

	// Subscribers dropped because their queue overflowed
	SubscriberOverflowCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "school_event_subscriber_overflow_total",
			Help: "Total number of event subscribers dropped due to a full queue",
		},
	)

	// Tenant resolution counter by signal source
	TenantResolutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "school_tenant_resolutions_total",
			Help: "Total number of tenant resolutions by signal source",
		},
		[]string{"source"}, // source can be "header", "school_token", "subdomain", "none"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "school_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "school_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Connected SSE clients
	ConnectedClientsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "school_event_connected_clients",
			Help: "Number of currently connected event stream clients",
		},
	)

	// Cached tenant database handles
	TenantHandleGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "school_tenant_db_handles",
			Help: "Number of tenant database handles held in the cache",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "school_info",
			Help: "Information about the school service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(SchoolTokenCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(EventsPublishedCounter)
	prometheus.MustRegister(SubscriberOverflowCounter)
	prometheus.MustRegister(TenantResolutionCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ConnectedClientsGauge)
	prometheus.MustRegister(TenantHandleGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordTenantResolution increments the tenant resolution counter for a source
func RecordTenantResolution(source string) {
	TenantResolutionCounter.With(prometheus.Labels{"source": source}).Inc()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
