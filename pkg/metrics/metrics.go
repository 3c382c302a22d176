package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Session metrics
	SessionMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_messages_sent_total",
			Help: "Total number of events sent to the navigation service",
		},
		[]string{"event", "status"},
	)

	SessionMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_messages_received_total",
			Help: "Total number of events received from the navigation service",
		},
		[]string{"event"},
	)

	SessionConnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_connects_total",
			Help: "Total number of connection attempts",
		},
		[]string{"status"},
	)

	SessionRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_recoveries_total",
			Help: "Total number of recovery attempts after send failures",
		},
		[]string{"action"},
	)

	SessionState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_state",
			Help: "Current session state (0 disconnected, 1 connecting, 2 connected, 3 registered, 4 failed, 5 closed)",
		},
	)

	SessionTripTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_trip_timeouts_total",
			Help: "Total number of trips whose route did not arrive in time",
		},
	)

	// Infrastructure metrics
	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)

	RabbitMQMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_consumed_total",
			Help: "Total number of messages consumed from RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, code).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, code).Observe(duration.Seconds())
}

// RecordSessionSend records an outbound session event
func RecordSessionSend(event string, err error) {
	SessionMessagesSent.WithLabelValues(event, status(err)).Inc()
}

// RecordSessionConnect records a dial attempt
func RecordSessionConnect(err error) {
	SessionConnects.WithLabelValues(status(err)).Inc()
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(service, operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(service, operation, status(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, queue string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(service, queue, status(err)).Inc()
}

// RecordRabbitMQConsume records RabbitMQ consume metrics
func RecordRabbitMQConsume(service, queue string, err error) {
	RabbitMQMessagesConsumed.WithLabelValues(service, queue, status(err)).Inc()
}
