package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNotifyMetrics() {
	r.NotifyPublishedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "egress_notify_published_total",
			Help: "Total number of run summary publications",
		},
		[]string{"status"},
	)
}
