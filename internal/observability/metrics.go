package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	documentsUploaded     *prometheus.CounterVec
	documentsRejected     *prometheus.CounterVec
	documentUploadLatency prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tender_api_requests_total",
			Help: "Total number of tender API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tender_api_latency_seconds",
			Help:    "Latency distribution for tender API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tender_api_errors_total",
			Help: "Total number of error responses returned by tender endpoints.",
		}, []string{"method", "route", "status"})

		documentsUploaded = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tender_documents_uploaded_total",
			Help: "Total number of documents accepted per MIME type.",
		}, []string{"mime_type"})

		documentsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tender_documents_rejected_total",
			Help: "Total number of rejected document uploads per reason.",
		}, []string{"reason"})

		documentUploadLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tender_document_upload_latency_seconds",
			Help:    "Latency distribution for document upload batches.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, documentsUploaded, documentsRejected, documentUploadLatency)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for served requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// DocumentsUploaded exposes the counter for accepted documents.
func DocumentsUploaded() *prometheus.CounterVec {
	RegisterMetrics()
	return documentsUploaded
}

// DocumentsRejected exposes the counter for rejected uploads.
func DocumentsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return documentsRejected
}

// DocumentUploadLatency exposes the histogram for upload batch latency.
func DocumentUploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return documentUploadLatency
}
