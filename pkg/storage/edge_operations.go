package storage

import (
	"sync/atomic"
)

// CreateEdge creates a new edge between two nodes. Parallel edges and
// self-loops are accepted; callers that need a simple graph deduplicate.
func (gs *GraphStorage) CreateEdge(fromID, toID uint64, edgeType string) (*Edge, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	// Verify nodes exist
	if err := gs.verifyNodeExists("CreateEdge", fromID, "source"); err != nil {
		return nil, err
	}
	if err := gs.verifyNodeExists("CreateEdge", toID, "target"); err != nil {
		return nil, err
	}

	// Check for ID space exhaustion
	if gs.nextEdgeID == ^uint64(0) { // MaxUint64
		return nil, NewError("CreateEdge").Entity("edge").Cause(ErrIDSpaceExhausted).Err()
	}

	edgeID := gs.nextEdgeID
	gs.nextEdgeID++

	edge := &Edge{
		ID:         edgeID,
		FromNodeID: fromID,
		ToNodeID:   toID,
		Type:       edgeType,
	}

	gs.edges[edgeID] = edge

	gs.incidentEdges[fromID] = append(gs.incidentEdges[fromID], edgeID)
	if toID != fromID {
		gs.incidentEdges[toID] = append(gs.incidentEdges[toID], edgeID)
	}

	atomic.AddUint64(&gs.stats.EdgeCount, 1)

	return edge.Clone(), nil
}

// DeleteEdge deletes an edge by ID
func (gs *GraphStorage) DeleteEdge(edgeID uint64) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	edge, exists := gs.edges[edgeID]
	if !exists {
		return EdgeNotFoundError("DeleteEdge", edgeID)
	}

	delete(gs.edges, edgeID)

	gs.incidentEdges[edge.FromNodeID] = removeEdgeFromList(gs.incidentEdges[edge.FromNodeID], edgeID)
	if edge.ToNodeID != edge.FromNodeID {
		gs.incidentEdges[edge.ToNodeID] = removeEdgeFromList(gs.incidentEdges[edge.ToNodeID], edgeID)
	}

	// Atomic decrement with underflow protection
	atomicDecrementWithUnderflowProtection(&gs.stats.EdgeCount)

	return nil
}

// FindEdge returns the ID of an edge joining a and b in either direction.
// When parallel edges exist the lowest edge ID wins.
func (gs *GraphStorage) FindEdge(a, b uint64) (uint64, bool) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	var found uint64
	for _, edgeID := range gs.incidentEdges[a] {
		if gs.edges[edgeID].Connects(a, b) && (found == 0 || edgeID < found) {
			found = edgeID
		}
	}
	return found, found != 0
}

// GetIncidentEdges returns copies of all edges touching nodeID
func (gs *GraphStorage) GetIncidentEdges(nodeID uint64) ([]*Edge, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	if _, exists := gs.nodes[nodeID]; !exists {
		return nil, NodeNotFoundError("GetIncidentEdges", nodeID)
	}

	edgeIDs := gs.incidentEdges[nodeID]
	edges := make([]*Edge, 0, len(edgeIDs))
	for _, edgeID := range edgeIDs {
		edges = append(edges, gs.edges[edgeID].Clone())
	}
	return edges, nil
}
