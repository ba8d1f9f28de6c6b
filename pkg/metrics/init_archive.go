package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initArchiveMetrics() {
	r.ArchiveWritesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "egress_archive_writes_total",
			Help: "Total number of artifact writes",
		},
		[]string{"backend", "status"},
	)

	r.ArchiveWriteBytes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "egress_archive_write_bytes",
			Help:    "Compressed artifact size in bytes",
			Buckets: []float64{1024, 10240, 102400, 1048576, 10485760},
		},
	)

	r.ArchiveWriteDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "egress_archive_write_duration_seconds",
			Help:    "Artifact write duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"backend"},
	)
}
