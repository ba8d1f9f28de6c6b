package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCheckMetrics() {
	r.ChecksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "egress_checks_total",
			Help: "Total number of check verdicts produced",
		},
		[]string{"category", "status"},
	)

	r.CheckStageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "egress_check_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"stage"},
	)

	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "egress_runs_total",
			Help: "Total number of completed runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "egress_run_duration_seconds",
			Help:    "Whole-run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
		},
	)

	r.RunScore = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egress_run_score",
			Help: "Compliance score of the last run (0-100)",
		},
	)
}
