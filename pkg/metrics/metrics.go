package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	// Operations counts catalog service calls by operation and outcome
	// (ok, validation, not_found, too_large, store_error).
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "operations_total", Help: "Catalog operations by operation and outcome."},
		[]string{"op", "outcome"},
	)
	BlobBytesUploaded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "catalog", Name: "blob_uploaded_bytes_total", Help: "Bytes written to the blob store."},
	)
	BlobsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "catalog", Name: "blobs_deleted_total", Help: "Replaced blobs removed from the blob store."},
	)
	// OrphanedBlobs counts blobs left behind when the document write failed after upload.
	OrphanedBlobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "orphaned_blobs_total", Help: "Blobs uploaded but never linked from a document."},
		[]string{"op"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(Operations)
	reg.MustRegister(BlobBytesUploaded)
	reg.MustRegister(BlobsDeleted)
	reg.MustRegister(OrphanedBlobs)
}
