package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the board.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	storeOps        *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	blobOps         *prometheus.CounterVec
	documentBytes   prometheus.Gauge
	noticesCreated  prometheus.Counter
	noticesDeleted  prometheus.Counter
	studentLogins   prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	storeOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_store_operations_total",
		Help: "Document store reads and writes by outcome",
	}, []string{"op", "outcome"})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "document_store_duration_seconds",
		Help:    "Latency of document persister calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	blobOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notice_blob_operations_total",
		Help: "Blob storage operations by outcome",
	}, []string{"op", "outcome"})

	documentBytes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "document_store_document_bytes",
		Help: "Encoded size of the last written document",
	})

	noticesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notices_created_total",
		Help: "Notices published",
	})

	noticesDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notices_deleted_total",
		Help: "Notices removed",
	})

	studentLogins := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "student_logins_total",
		Help: "Student login records appended",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storeOps, storeDuration, blobOps, documentBytes,
		noticesCreated, noticesDeleted, studentLogins, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		storeOps:        storeOps,
		storeDuration:   storeDuration,
		blobOps:         blobOps,
		documentBytes:   documentBytes,
		noticesCreated:  noticesCreated,
		noticesDeleted:  noticesDeleted,
		studentLogins:   studentLogins,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests and tooling.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveStoreOperation implements repository.StoreObserver.
func (m *MetricsService) ObserveStoreOperation(op, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(op, outcome).Inc()
	if duration > 0 {
		m.storeDuration.WithLabelValues(op).Observe(duration.Seconds())
	}
}

// ObserveDocumentSize implements repository.StoreObserver.
func (m *MetricsService) ObserveDocumentSize(bytes int) {
	if m == nil {
		return
	}
	m.documentBytes.Set(float64(bytes))
}

// RecordBlobOperation counts blob storage calls.
func (m *MetricsService) RecordBlobOperation(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.blobOps.WithLabelValues(op, outcome).Inc()
}

// NoticeCreated increments the publish counter.
func (m *MetricsService) NoticeCreated() {
	if m != nil {
		m.noticesCreated.Inc()
	}
}

// NoticeDeleted increments the removal counter.
func (m *MetricsService) NoticeDeleted() {
	if m != nil {
		m.noticesDeleted.Inc()
	}
}

// StudentLoggedIn increments the login counter.
func (m *MetricsService) StudentLoggedIn() {
	if m != nil {
		m.studentLogins.Inc()
	}
}
