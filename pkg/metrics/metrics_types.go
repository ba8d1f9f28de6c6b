package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Model metrics
	ModelElementsTotal        *prometheus.GaugeVec
	ModelRelationsTotal       *prometheus.GaugeVec
	ModelRejectedRecordsTotal *prometheus.CounterVec

	// Geometry metrics
	GeometryCacheHits            prometheus.Gauge
	GeometryCacheMisses          prometheus.Gauge
	GeometryTessellationFailures prometheus.Gauge

	// Adjacency graph metrics
	GraphRoomsTotal         prometheus.Gauge
	GraphDoorLinksTotal     prometheus.Gauge
	GraphUnlinkedDoorsTotal prometheus.Gauge
	GraphStairRoomsTotal    prometheus.Gauge

	// Check metrics
	ChecksTotal        *prometheus.CounterVec
	CheckStageDuration *prometheus.HistogramVec
	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	RunScore           prometheus.Gauge

	// Archive metrics
	ArchiveWritesTotal   *prometheus.CounterVec
	ArchiveWriteBytes    prometheus.Histogram
	ArchiveWriteDuration *prometheus.HistogramVec

	// Run store metrics
	RunstoreOperationsTotal   *prometheus.CounterVec
	RunstoreOperationDuration *prometheus.HistogramVec

	// Notify metrics
	NotifyPublishedTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initModelMetrics()
	r.initGeometryMetrics()
	r.initGraphMetrics()
	r.initCheckMetrics()
	r.initArchiveMetrics()
	r.initRunstoreMetrics()
	r.initNotifyMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
