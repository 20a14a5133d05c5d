package algorithms

import (
	"testing"

	"github.com/dd0wney/cluso-communities/pkg/storage"
)

// buildGraph creates nodes 1..n and the given undirected edges
func buildGraph(t testing.TB, n int, edges [][2]uint64) *storage.GraphStorage {
	t.Helper()

	gs := storage.NewGraphStorageWithCapacity(n, len(edges))
	for i := 0; i < n; i++ {
		if _, err := gs.CreateNode([]string{"Node"}); err != nil {
			t.Fatalf("Failed to create node: %v", err)
		}
	}
	for _, e := range edges {
		if _, err := gs.CreateEdge(e[0], e[1], "LINKS"); err != nil {
			t.Fatalf("Failed to create edge %v: %v", e, err)
		}
	}
	return gs
}

// Node names for the two-squares fixture
const (
	nodeA uint64 = iota + 1
	nodeB
	nodeC
	nodeD
	nodeE
	nodeF
	nodeG
	nodeH
)

// buildTwoSquares builds two 4-cycles a-b-c-d and e-f-g-h joined by b-e
//
//	a ----- b ----- e ----- f
//	|       |       |       |
//	d ----- c       h ----- g
func buildTwoSquares(t testing.TB) *storage.GraphStorage {
	t.Helper()

	return buildGraph(t, 8, [][2]uint64{
		{nodeA, nodeB},
		{nodeB, nodeC},
		{nodeC, nodeD},
		{nodeD, nodeA},
		{nodeE, nodeF},
		{nodeB, nodeE},
		{nodeF, nodeG},
		{nodeG, nodeH},
		{nodeH, nodeE},
	})
}

// assertPartition checks that communities split nodeIDs exactly
func assertPartition(t *testing.T, nodeIDs []uint64, communities []*Community) {
	t.Helper()

	seen := make(map[uint64]int)
	for _, c := range communities {
		if len(c.Nodes) == 0 {
			t.Errorf("community %d is empty", c.ID)
		}
		if c.Size != len(c.Nodes) {
			t.Errorf("community %d Size = %d, has %d nodes", c.ID, c.Size, len(c.Nodes))
		}
		for _, id := range c.Nodes {
			seen[id]++
		}
	}
	for _, id := range nodeIDs {
		if seen[id] != 1 {
			t.Errorf("node %d appears in %d communities, want 1", id, seen[id])
		}
		delete(seen, id)
	}
	for id := range seen {
		t.Errorf("unknown node %d in partition", id)
	}
}

// buildDiamondChain joins n 4-cycles end to end. The shortest-path count
// from node 1 to the far end doubles with every diamond, reaching 2^n.
func buildDiamondChain(t testing.TB, n int) *storage.GraphStorage {
	t.Helper()

	gs := storage.NewGraphStorageWithCapacity(3*n+1, 4*n)
	prev, err := gs.CreateNode(nil)
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}
	for i := 0; i < n; i++ {
		left, _ := gs.CreateNode(nil)
		right, _ := gs.CreateNode(nil)
		next, _ := gs.CreateNode(nil)
		for _, e := range [][2]uint64{{prev.ID, left.ID}, {prev.ID, right.ID}, {left.ID, next.ID}, {right.ID, next.ID}} {
			if _, err := gs.CreateEdge(e[0], e[1], ""); err != nil {
				t.Fatalf("Failed to create edge %v: %v", e, err)
			}
		}
		prev = next
	}
	return gs
}

// totalDistance sums the shortest-path length over every ordered pair of
// connected nodes. Each unit of path length is one unit of edge betweenness,
// so the betweenness scores of a graph add up to this value.
func totalDistance(g Graph) float64 {
	total := 0
	for _, source := range g.NodeIDs() {
		distance := map[uint64]int{source: 0}
		queue := []uint64{source}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range g.Neighbors(v) {
				if _, seen := distance[w]; !seen {
					distance[w] = distance[v] + 1
					total += distance[w]
					queue = append(queue, w)
				}
			}
		}
	}
	return float64(total)
}
