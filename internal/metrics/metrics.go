package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stlib_http_requests_total",
			Help: "Total number of HTTP requests handled by the API",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stlib_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	PolicyDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stlib_policy_denials_total",
			Help: "Authorization decisions that denied an action",
		},
		[]string{"action", "reason"},
	)

	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stlib_uploads_total",
			Help: "Catalogue upload attempts by outcome",
		},
		[]string{"outcome"},
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stlib_upload_bytes_total",
			Help: "Bytes of model files accepted into the catalogue",
		},
	)

	StorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stlib_storage_operations_total",
			Help: "Object storage calls by driver, operation and outcome",
		},
		[]string{"driver", "operation", "outcome"},
	)

	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stlib_storage_operation_duration_seconds",
			Help:    "Object storage call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	AuditDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stlib_audit_dropped_total",
			Help: "Audit entries dropped because the queue was full",
		},
	)
)

// Outcome labels shared by the counters above.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
