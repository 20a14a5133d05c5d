package algorithms

import "github.com/dd0wney/cluso-communities/pkg/storage"

// Graph is the read-only topology view the traversal algorithms need.
// Neighbors must treat edges as undirected.
type Graph interface {
	NodeIDs() []uint64
	Neighbors(nodeID uint64) []uint64
}

// EdgeSource is a Graph that can also enumerate its edges. Girvan-Newman
// reads one to build its working copy.
type EdgeSource interface {
	Graph
	Edges() []*storage.Edge
}

var _ EdgeSource = (*storage.GraphStorage)(nil)
