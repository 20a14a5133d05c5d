package algorithms

// Modularity computes Newman's modularity Q of a partition on an undirected,
// unweighted graph:
//
//	Q = sum over c of [ L_c/m - (d_c/2m)^2 ]
//
// where L_c is the number of edges inside community c, d_c the summed degree
// of its members and m the edge count. Nodes missing from every community
// still count towards m. An edgeless graph scores 0.
func Modularity(graph Graph, communities []*Community) float64 {
	membership := make(map[uint64]int)
	for i, c := range communities {
		for _, id := range c.Nodes {
			membership[id] = i
		}
	}

	degree := make([]int, len(communities))
	internal := make([]int, len(communities))
	endpoints := 0

	for _, id := range graph.NodeIDs() {
		neighbors := graph.Neighbors(id)
		endpoints += len(neighbors)

		c, ok := membership[id]
		if !ok {
			continue
		}
		degree[c] += len(neighbors)
		for _, n := range neighbors {
			if nc, ok := membership[n]; ok && nc == c {
				internal[c]++
			}
		}
	}

	if endpoints == 0 {
		return 0.0
	}

	// endpoints is 2m and internal counts each inner edge from both sides
	twoM := float64(endpoints)
	q := 0.0
	for c := range communities {
		share := float64(degree[c]) / twoM
		q += float64(internal[c])/twoM - share*share
	}
	return q
}
