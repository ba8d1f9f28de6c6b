package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphRoomsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egress_graph_rooms_total",
			Help: "Rooms in the adjacency graph",
		},
	)

	r.GraphDoorLinksTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egress_graph_door_links_total",
			Help: "Door links connecting rooms in the adjacency graph",
		},
	)

	r.GraphUnlinkedDoorsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egress_graph_unlinked_doors_total",
			Help: "Doors that could not be linked to any room",
		},
	)

	r.GraphStairRoomsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "egress_graph_stair_rooms_total",
			Help: "Rooms classified as stairs",
		},
	)
}
