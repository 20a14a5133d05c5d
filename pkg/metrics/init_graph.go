package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gn_graph_loads_total",
			Help: "Total number of graph fixture loads",
		},
		[]string{"format", "status"},
	)

	r.GraphNodesLoaded = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "gn_graph_nodes_loaded",
			Help: "Nodes in the most recently loaded graph",
		},
	)

	r.GraphEdgesLoaded = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "gn_graph_edges_loaded",
			Help: "Edges in the most recently loaded graph",
		},
	)
}
