package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts total requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDuration measures request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	// DocumentOperationDuration measures document load/save duration.
	DocumentOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "document_operation_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation", "status"},
	)

	// DocumentLockWait measures time spent waiting for the document lock.
	DocumentLockWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "document_lock_wait_seconds",
			Help:    "Time spent waiting for the document lock",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"mode"},
	)

	// DocumentRecords reports record counts per collection after each load.
	DocumentRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "document_records",
			Help: "Number of records per collection in the data document",
		},
		[]string{"collection"},
	)

	// CatalogMutationsTotal counts committed mutations.
	CatalogMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_mutations_total",
			Help: "Total number of catalog mutations",
		},
		[]string{"entity", "action", "status"},
	)

	// EventsPublishedTotal counts catalog events handed to the broker.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_events_published_total",
			Help: "Total number of catalog events published",
		},
		[]string{"type", "status"},
	)
)

// Status 将错误转换为指标标签
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
