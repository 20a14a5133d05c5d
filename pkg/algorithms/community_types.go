package algorithms

// Community represents a detected community
type Community struct {
	ID      int
	Nodes   []uint64 // discovery order
	Size    int
	Density float64 // Edge density within community
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities   []*Community
	Modularity    float64        // Quality measure of the partitioning
	NodeCommunity map[uint64]int // Node ID -> Community ID
}

// Contains reports whether nodeID belongs to the community
func (c *Community) Contains(nodeID uint64) bool {
	for _, id := range c.Nodes {
		if id == nodeID {
			return true
		}
	}
	return false
}

// NodeSet returns the members as a set
func (c *Community) NodeSet() map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(c.Nodes))
	for _, id := range c.Nodes {
		set[id] = struct{}{}
	}
	return set
}

// Partition returns the member lists of every community in discovery order
func (r *CommunityDetectionResult) Partition() [][]uint64 {
	partition := make([][]uint64, len(r.Communities))
	for i, c := range r.Communities {
		partition[i] = append([]uint64(nil), c.Nodes...)
	}
	return partition
}
