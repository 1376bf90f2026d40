// Package metrics provides Prometheus metrics for the GLOSSA
// annotation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the annotation service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Span lifecycle
	spansAccepted prometheus.Counter
	spansRejected *prometheus.CounterVec
	layerCount    *prometheus.GaugeVec

	// Temporal joins
	joinQueries      *prometheus.CounterVec
	joinQueryLatency prometheus.Histogram

	// Tracking workflow
	trackingTransitions *prometheus.CounterVec
	trackingRejections  *prometheus.CounterVec
	annotationsSaved    prometheus.Counter
	interpolatedFrames  prometheus.Counter

	// Archives
	archiveOps   *prometheus.CounterVec
	archiveCount prometheus.Gauge

	// Ingestion
	ingestBatches        *prometheus.CounterVec
	ingestDroppedSamples prometheus.Counter
	ingestQueueSize      prometheus.Gauge
	ingestQueueCapacity  prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "glossa",
		subsystem:        "annotation",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.spansAccepted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "spans_accepted_total",
		Help:      "Spans accepted by the overlap validator.",
	})
	m.spansRejected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "spans_rejected_total",
		Help:      "Spans rejected, labeled by rejection reason.",
	}, []string{"reason"})
	m.layerCount = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "layer_count",
		Help:      "Current stacking layer count per segment.",
	}, []string{"segment"})

	m.joinQueries = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "join_queries_total",
		Help:      "Temporal join queries, labeled by source shape.",
	}, []string{"source"})
	m.joinQueryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "join_query_latency_ms",
		Help:      "Temporal join query latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.trackingTransitions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracking_transitions_total",
		Help:      "Tracking workflow transitions, labeled by kind.",
	}, []string{"kind"})
	m.trackingRejections = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracking_rejections_total",
		Help:      "Rejected tracking transitions, labeled by kind.",
	}, []string{"kind"})
	m.annotationsSaved = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "annotations_saved_total",
		Help:      "Finalized tracked annotations.",
	})
	m.interpolatedFrames = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "interpolated_frames_total",
		Help:      "Dense frames produced by keyframe interpolation.",
	})

	m.archiveOps = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_ops_total",
		Help:      "Archive store operations, labeled by operation.",
	}, []string{"op"})
	m.archiveCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_count",
		Help:      "Archives currently persisted.",
	})

	m.ingestBatches = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_batches_total",
		Help:      "Machine-output batches, labeled by outcome.",
	}, []string{"outcome"})
	m.ingestDroppedSamples = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_dropped_samples_total",
		Help:      "Malformed samples dropped during ingestion.",
	})
	m.ingestQueueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_queue_size",
		Help:      "Batches waiting in the ingest queue.",
	})
	m.ingestQueueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_queue_capacity",
		Help:      "Configured capacity of the ingest queue.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests, labeled by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})
}

// Package-level helpers operating on the global manager.

// RecordSpanAccepted increments the accepted span counter.
func RecordSpanAccepted() {
	globalManager.spansAccepted.Inc()
}

// RecordSpanRejected increments the rejected span counter for a
// reason.
func RecordSpanRejected(reason string) {
	globalManager.spansRejected.WithLabelValues(reason).Inc()
}

// UpdateLayerCount sets the current layer count of a segment.
func UpdateLayerCount(segment string, count int) {
	globalManager.layerCount.WithLabelValues(segment).Set(float64(count))
}

// RecordJoinQuery counts one temporal join query against a source.
func RecordJoinQuery(source string) {
	globalManager.joinQueries.WithLabelValues(source).Inc()
}

// RecordJoinQueryLatency observes a join query latency.
func RecordJoinQueryLatency(latencyMs float64) {
	globalManager.joinQueryLatency.Observe(latencyMs)
}

// RecordTrackingTransition counts one accepted workflow transition.
func RecordTrackingTransition(kind string) {
	globalManager.trackingTransitions.WithLabelValues(kind).Inc()
}

// RecordTrackingRejection counts one rejected workflow transition.
func RecordTrackingRejection(kind string) {
	globalManager.trackingRejections.WithLabelValues(kind).Inc()
}

// RecordAnnotationSaved counts a finalized annotation and its dense
// frame expansion.
func RecordAnnotationSaved(frames int) {
	globalManager.annotationsSaved.Inc()
	globalManager.interpolatedFrames.Add(float64(frames))
}

// RecordArchiveOp counts one archive store operation.
func RecordArchiveOp(op string) {
	globalManager.archiveOps.WithLabelValues(op).Inc()
}

// UpdateArchiveCount sets the persisted archive gauge.
func UpdateArchiveCount(count int) {
	globalManager.archiveCount.Set(float64(count))
}

// RecordIngestBatch counts one ingested batch by outcome.
func RecordIngestBatch(outcome string) {
	globalManager.ingestBatches.WithLabelValues(outcome).Inc()
}

// RecordIngestDroppedSamples counts malformed samples dropped during
// normalization.
func RecordIngestDroppedSamples(n int) {
	globalManager.ingestDroppedSamples.Add(float64(n))
}

// UpdateIngestQueueSize sets the ingest queue depth gauge.
func UpdateIngestQueueSize(size int) {
	globalManager.ingestQueueSize.Set(float64(size))
}

// UpdateIngestQueueCapacity sets the ingest queue capacity gauge.
func UpdateIngestQueueCapacity(capacity int) {
	globalManager.ingestQueueCapacity.Set(float64(capacity))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// GetRegistry returns the custom registry backing the global manager,
// for exposing via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
