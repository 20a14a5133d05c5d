package storage

// Node represents a vertex in the graph
type Node struct {
	ID     uint64
	Labels []string
}

// Edge represents a relationship between nodes. Direction is recorded but
// adjacency queries treat every edge as undirected.
type Edge struct {
	ID         uint64
	FromNodeID uint64
	ToNodeID   uint64
	Type       string
}

// Statistics tracks graph statistics
type Statistics struct {
	NodeCount uint64
	EdgeCount uint64
}

// Clone creates a deep copy of a node
func (n *Node) Clone() *Node {
	clone := &Node{
		ID:     n.ID,
		Labels: make([]string, len(n.Labels)),
	}
	copy(clone.Labels, n.Labels)
	return clone
}

// HasLabel checks if node has a specific label
func (n *Node) HasLabel(label string) bool {
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Clone creates a copy of an edge
func (e *Edge) Clone() *Edge {
	clone := *e
	return &clone
}

// Other returns the endpoint opposite nodeID. For a self-loop it returns nodeID.
func (e *Edge) Other(nodeID uint64) uint64 {
	if e.FromNodeID == nodeID {
		return e.ToNodeID
	}
	return e.FromNodeID
}

// Connects reports whether the edge joins a and b in either direction.
func (e *Edge) Connects(a, b uint64) bool {
	return (e.FromNodeID == a && e.ToNodeID == b) || (e.FromNodeID == b && e.ToNodeID == a)
}
