package storage

import (
	"sync/atomic"
)

// CreateNode creates a new node with the next free ID
func (gs *GraphStorage) CreateNode(labels []string) (*Node, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	// Skip IDs already claimed through CreateNodeWithID
	for {
		if gs.nextNodeID == ^uint64(0) { // MaxUint64
			return nil, NewError("CreateNode").Entity("node").Cause(ErrIDSpaceExhausted).Err()
		}
		if _, taken := gs.nodes[gs.nextNodeID]; !taken {
			break
		}
		gs.nextNodeID++
	}

	nodeID := gs.nextNodeID
	gs.nextNodeID++

	return gs.insertNode(nodeID, labels), nil
}

// CreateNodeWithID creates a node under a caller-chosen ID. Loaders use this
// to carry fixture identifiers into the graph unchanged.
func (gs *GraphStorage) CreateNodeWithID(nodeID uint64, labels []string) (*Node, error) {
	if nodeID == 0 || nodeID == ^uint64(0) {
		return nil, NewError("CreateNodeWithID").Node(nodeID).Cause(ErrInvalidID).Err()
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, exists := gs.nodes[nodeID]; exists {
		return nil, NewError("CreateNodeWithID").Node(nodeID).Cause(ErrDuplicateNode).Err()
	}

	return gs.insertNode(nodeID, labels), nil
}

// insertNode stores a node. Assumes the caller holds gs.mu.Lock()
func (gs *GraphStorage) insertNode(nodeID uint64, labels []string) *Node {
	node := &Node{
		ID:     nodeID,
		Labels: append([]string(nil), labels...),
	}

	gs.nodes[nodeID] = node
	gs.nodeOrder = append(gs.nodeOrder, nodeID)

	atomic.AddUint64(&gs.stats.NodeCount, 1)

	return node.Clone()
}

// GetNode retrieves a node by ID
func (gs *GraphStorage) GetNode(nodeID uint64) (*Node, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	node, exists := gs.nodes[nodeID]
	if !exists {
		return nil, ErrNodeNotFound
	}

	return node.Clone(), nil
}

// HasNode reports whether nodeID exists
func (gs *GraphStorage) HasNode(nodeID uint64) bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	_, exists := gs.nodes[nodeID]
	return exists
}

// verifyNodeExists checks if a node exists and returns an error if not.
// Assumes the caller holds gs.mu.
func (gs *GraphStorage) verifyNodeExists(op string, nodeID uint64, role string) error {
	if _, exists := gs.nodes[nodeID]; !exists {
		return NewError(op).Node(nodeID).Context(role).Cause(ErrNodeNotFound).Err()
	}
	return nil
}
