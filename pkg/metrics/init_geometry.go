package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGeometryMetrics() {
	r.GeometryCacheHits = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egress_geometry_cache_hits",
			Help: "Tessellation cache hits in the last run",
		},
	)

	r.GeometryCacheMisses = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egress_geometry_cache_misses",
			Help: "Tessellation cache misses in the last run",
		},
	)

	r.GeometryTessellationFailures = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egress_geometry_tessellation_failures",
			Help: "Elements whose mesh could not be derived in the last run",
		},
	)
}
