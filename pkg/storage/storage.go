package storage

import (
	"sort"
	"sync"
	"sync/atomic"
)

// GraphStorage is an in-memory topology store. Node and edge IDs are
// allocated from 1, are stable, and are never reused after deletion.
type GraphStorage struct {
	// Core data structures
	nodes map[uint64]*Node
	edges map[uint64]*Edge

	// nodeOrder preserves insertion order; it is the native iteration order
	nodeOrder []uint64

	// node ID -> incident edge IDs in insertion order (both directions)
	incidentEdges map[uint64][]uint64

	// ID generators
	nextNodeID uint64
	nextEdgeID uint64

	mu sync.RWMutex

	// Statistics (using atomic operations for thread-safety)
	stats Statistics
}

// NewGraphStorage creates an empty graph
func NewGraphStorage() *GraphStorage {
	return NewGraphStorageWithCapacity(0, 0)
}

// NewGraphStorageWithCapacity creates an empty graph with preallocated maps
func NewGraphStorageWithCapacity(nodes, edges int) *GraphStorage {
	return &GraphStorage{
		nodes:         make(map[uint64]*Node, nodes),
		edges:         make(map[uint64]*Edge, edges),
		nodeOrder:     make([]uint64, 0, nodes),
		incidentEdges: make(map[uint64][]uint64, nodes),
		nextNodeID:    1,
		nextEdgeID:    1,
	}
}

// NodeIDs returns all node IDs in insertion order
func (gs *GraphStorage) NodeIDs() []uint64 {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	ids := make([]uint64, len(gs.nodeOrder))
	copy(ids, gs.nodeOrder)
	return ids
}

// Neighbors returns the opposite endpoint of every edge incident to nodeID,
// in edge insertion order. Parallel edges yield repeated neighbors and a
// self-loop yields nodeID itself. Unknown nodes have no neighbors.
func (gs *GraphStorage) Neighbors(nodeID uint64) []uint64 {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	edgeIDs := gs.incidentEdges[nodeID]
	neighbors := make([]uint64, 0, len(edgeIDs))
	for _, edgeID := range edgeIDs {
		neighbors = append(neighbors, gs.edges[edgeID].Other(nodeID))
	}
	return neighbors
}

// Edges returns copies of all edges ordered by edge ID
func (gs *GraphStorage) Edges() []*Edge {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	edges := make([]*Edge, 0, len(gs.edges))
	for _, edge := range gs.edges {
		edges = append(edges, edge.Clone())
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges
}

// NodeCount returns the number of live nodes
func (gs *GraphStorage) NodeCount() int {
	return int(atomic.LoadUint64(&gs.stats.NodeCount))
}

// EdgeCount returns the number of live edges
func (gs *GraphStorage) EdgeCount() int {
	return int(atomic.LoadUint64(&gs.stats.EdgeCount))
}

// GetStatistics returns graph statistics (thread-safe using atomic operations)
func (gs *GraphStorage) GetStatistics() Statistics {
	return Statistics{
		NodeCount: atomic.LoadUint64(&gs.stats.NodeCount),
		EdgeCount: atomic.LoadUint64(&gs.stats.EdgeCount),
	}
}

// Clone returns an independent copy with the same IDs and allocator state
func (gs *GraphStorage) Clone() *GraphStorage {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	clone := NewGraphStorageWithCapacity(len(gs.nodes), len(gs.edges))
	for _, id := range gs.nodeOrder {
		clone.nodes[id] = gs.nodes[id].Clone()
		clone.nodeOrder = append(clone.nodeOrder, id)
		incident := gs.incidentEdges[id]
		clone.incidentEdges[id] = append(make([]uint64, 0, len(incident)), incident...)
	}
	for id, edge := range gs.edges {
		clone.edges[id] = edge.Clone()
	}
	clone.nextNodeID = gs.nextNodeID
	clone.nextEdgeID = gs.nextEdgeID
	clone.stats = gs.GetStatistics()
	return clone
}

// atomicDecrementWithUnderflowProtection decrements a counter but never below zero
func atomicDecrementWithUnderflowProtection(counter *uint64) {
	for {
		current := atomic.LoadUint64(counter)
		if current == 0 {
			break
		}
		if atomic.CompareAndSwapUint64(counter, current, current-1) {
			break
		}
	}
}

// removeEdgeFromList removes the first occurrence of edgeID
func removeEdgeFromList(edgeIDs []uint64, edgeID uint64) []uint64 {
	for i, id := range edgeIDs {
		if id == edgeID {
			return append(edgeIDs[:i], edgeIDs[i+1:]...)
		}
	}
	return edgeIDs
}
