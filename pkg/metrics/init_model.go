package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initModelMetrics() {
	r.ModelElementsTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "egress_model_elements_total",
			Help: "Number of elements in the model by kind",
		},
		[]string{"kind"},
	)

	r.ModelRelationsTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "egress_model_relations_total",
			Help: "Number of relations in the model by kind",
		},
		[]string{"kind"},
	)

	r.ModelRejectedRecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "egress_model_rejected_records_total",
			Help: "Total number of input records rejected by validation",
		},
		[]string{"record"},
	)
}
