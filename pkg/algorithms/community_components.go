package algorithms

import (
	"container/list"
)

// ConnectedComponents partitions the graph into maximal sets of mutually
// reachable nodes. Nodes are scanned in the graph's native order and each
// unvisited node seeds a BFS flood fill, so community IDs follow discovery
// order. Density is filled in; Modularity is left to the caller.
func ConnectedComponents(graph Graph) *CommunityDetectionResult {
	nodeIDs := graph.NodeIDs()

	visited := make(map[uint64]bool, len(nodeIDs))
	nodeCommunity := make(map[uint64]int, len(nodeIDs))
	communities := make([]*Community, 0)
	communityID := 0

	for _, startNode := range nodeIDs {
		if visited[startNode] {
			continue
		}

		component := &Community{
			ID:    communityID,
			Nodes: make([]uint64, 0),
		}

		queue := list.New()
		queue.PushBack(startNode)
		visited[startNode] = true

		internalEndpoints := 0
		for queue.Len() > 0 {
			nodeID, ok := queue.Remove(queue.Front()).(uint64)
			if !ok {
				continue
			}
			component.Nodes = append(component.Nodes, nodeID)
			nodeCommunity[nodeID] = communityID

			for _, neighbor := range graph.Neighbors(nodeID) {
				if neighbor != nodeID {
					internalEndpoints++
				}
				if !visited[neighbor] {
					visited[neighbor] = true
					queue.PushBack(neighbor)
				}
			}
		}

		component.Size = len(component.Nodes)
		component.Density = density(internalEndpoints/2, component.Size)
		communities = append(communities, component)
		communityID++
	}

	return &CommunityDetectionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
	}
}

// CountComponents returns the number of connected components without
// materialising them.
func CountComponents(graph Graph) int {
	nodeIDs := graph.NodeIDs()
	visited := make(map[uint64]bool, len(nodeIDs))
	queue := make([]uint64, 0, len(nodeIDs))
	count := 0

	for _, startNode := range nodeIDs {
		if visited[startNode] {
			continue
		}
		count++

		visited[startNode] = true
		queue = append(queue[:0], startNode)
		for len(queue) > 0 {
			nodeID := queue[0]
			queue = queue[1:]
			for _, neighbor := range graph.Neighbors(nodeID) {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}
	}

	return count
}

// density is edges over possible pairs; singletons are 0
func density(edges, nodes int) float64 {
	if nodes < 2 {
		return 0.0
	}
	return float64(edges) / float64(nodes*(nodes-1)/2)
}
