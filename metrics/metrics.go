package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	storageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_storage_operations_total",
			Help: "Total number of object storage operations",
		},
		[]string{"bucket", "operation", "result"},
	)
	contentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_content_operations_total",
			Help: "Total number of content create/update/delete operations",
		},
		[]string{"entity", "operation", "result"},
	)
	compensations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_compensations_total",
			Help: "Total number of compensating actions run after a failed operation",
		},
		[]string{"step", "result"},
	)
	chatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_chat_requests_total",
			Help: "Total number of chat proxy requests",
		},
		[]string{"result"},
	)
	chatLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_chat_upstream_latency_ms",
			Help:    "Latency of chat provider calls in milliseconds",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 20000},
		},
	)
	reconciledBlobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_reconciled_blobs_total",
			Help: "Total number of orphaned blobs found by reconciliation",
		},
		[]string{"bucket", "action"},
	)
)

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

func RecordStorageOperation(bucket, operation string, err error) {
	storageOperations.WithLabelValues(bucket, operation, Result(err)).Inc()
}

func RecordContentOperation(entity, operation string, err error) {
	contentOperations.WithLabelValues(entity, operation, Result(err)).Inc()
}

func RecordCompensation(step string, err error) {
	compensations.WithLabelValues(step, Result(err)).Inc()
}

// RecordChatRequest counts a chat request; result is a short outcome such as
// "success", "config_error" or "upstream_error".
func RecordChatRequest(result string) {
	chatRequests.WithLabelValues(result).Inc()
}

func RecordChatLatency(d time.Duration) {
	chatLatency.Observe(float64(d.Milliseconds()))
}

// RecordReconciledBlob counts an orphan; action is "deleted", "skipped" or "failed".
func RecordReconciledBlob(bucket, action string) {
	reconciledBlobs.WithLabelValues(bucket, action).Inc()
}
