package metrics

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
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
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initAlgorithmMetrics()
	r.initGraphMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordRun records a finished run with its final status
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// RecordRound records a completed split round
func (r *Registry) RecordRound(components int) {
	r.RoundsTotal.Inc()
	r.ComponentsCurrent.Set(float64(components))
}

// RecordBetweenness records one edge betweenness computation
func (r *Registry) RecordBetweenness(duration time.Duration) {
	r.BetweennessComputationsTotal.Inc()
	r.BetweennessDuration.Observe(duration.Seconds())
}

// RecordRemoval records a tie-set removal and the edges left behind
func (r *Registry) RecordRemoval(removed, remainingEdges, components int) {
	r.EdgesRemovedTotal.Add(float64(removed))
	r.WorkingGraphEdges.Set(float64(remainingEdges))
	r.ComponentsCurrent.Set(float64(components))
}

// RecordGraphLoad records a fixture load attempt
func (r *Registry) RecordGraphLoad(format, status string, nodes, edges int) {
	r.GraphLoadsTotal.WithLabelValues(format, status).Inc()
	if status == "success" {
		r.GraphNodesLoaded.Set(float64(nodes))
		r.GraphEdgesLoaded.Set(float64(edges))
	}
}

// Sample is one flattened metric value from a registry snapshot
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Snapshot gathers every metric into a flat, name-sorted list. Counters and
// gauges report their value, histograms their sample count.
func (r *Registry) Snapshot() ([]Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, family := range families {
		for _, m := range family.GetMetric() {
			s := Sample{Name: family.GetName(), Labels: make(map[string]string)}
			for _, lp := range m.GetLabel() {
				s.Labels[lp.GetName()] = lp.GetValue()
			}
			switch {
			case m.Counter != nil:
				s.Value = m.GetCounter().GetValue()
			case m.Gauge != nil:
				s.Value = m.GetGauge().GetValue()
			case m.Histogram != nil:
				s.Value = float64(m.GetHistogram().GetSampleCount())
			}
			samples = append(samples, s)
		}
	}

	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}
