package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// IngestBatchesTotal counts ingestion batches by outcome (ok, error).
	IngestBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_ingest_batches_total",
			Help: "Total number of inventory ingestion batches by outcome",
		},
		[]string{"status"},
	)

	// IngestRowsTotal counts committed ingestion rows by result (added, updated).
	IngestRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_ingest_rows_total",
			Help: "Total number of committed ingestion rows by result",
		},
		[]string{"result"},
	)

	// DecisionsTotal counts decisions by outcome (APPROVED, REJECTED, refused).
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_request_decisions_total",
			Help: "Total number of request decisions by outcome",
		},
		[]string{"decision"},
	)

	// NotificationsTotal counts notification attempts by transport and result.
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notification attempts by transport and result",
		},
		[]string{"transport", "result"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, IngestBatchesTotal, IngestRowsTotal, DecisionsTotal, NotificationsTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /requests/123/approve -> /requests/{id}/approve.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

func IncIngestBatches(status string) {
	IngestBatchesTotal.WithLabelValues(status).Inc()
}

func AddIngestRows(added, updated int) {
	IngestRowsTotal.WithLabelValues("added").Add(float64(added))
	IngestRowsTotal.WithLabelValues("updated").Add(float64(updated))
}

func IncDecisions(decision string) {
	DecisionsTotal.WithLabelValues(decision).Inc()
}

func IncNotifications(transport string, ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	NotificationsTotal.WithLabelValues(transport, result).Inc()
}
