package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for community detection runs
type Registry struct {
	// Algorithm Metrics
	RunsTotal                    *prometheus.CounterVec
	RunDuration                  prometheus.Histogram
	RoundsTotal                  prometheus.Counter
	EdgesRemovedTotal            prometheus.Counter
	BetweennessComputationsTotal prometheus.Counter
	BetweennessDuration          prometheus.Histogram
	ComponentsCurrent            prometheus.Gauge
	WorkingGraphEdges            prometheus.Gauge

	// Graph Loading Metrics
	GraphLoadsTotal  *prometheus.CounterVec
	GraphNodesLoaded prometheus.Gauge
	GraphEdgesLoaded prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)
