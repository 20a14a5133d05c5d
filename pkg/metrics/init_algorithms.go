package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAlgorithmMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gn_runs_total",
			Help: "Total number of Girvan-Newman runs by outcome",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gn_run_duration_seconds",
			Help:    "Girvan-Newman run duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 1.0, 10.0, 60.0, 600.0},
		},
	)

	r.RoundsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "gn_rounds_total",
			Help: "Total number of completed split rounds",
		},
	)

	r.EdgesRemovedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "gn_edges_removed_total",
			Help: "Total number of edges removed from working graphs",
		},
	)

	r.BetweennessComputationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "gn_betweenness_computations_total",
			Help: "Total number of full edge betweenness computations",
		},
	)

	r.BetweennessDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gn_betweenness_duration_seconds",
			Help:    "Edge betweenness computation duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
	)

	r.ComponentsCurrent = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "gn_components",
			Help: "Connected components in the working graph after the last step",
		},
	)

	r.WorkingGraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "gn_working_graph_edges",
			Help: "Edges remaining in the working graph",
		},
	)
}
