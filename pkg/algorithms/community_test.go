package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-communities/pkg/storage"
)

// TestConnectedComponents_EmptyGraph tests connected components on empty graph
func TestConnectedComponents_EmptyGraph(t *testing.T) {
	result := ConnectedComponents(storage.NewGraphStorage())

	if len(result.Communities) != 0 {
		t.Errorf("Expected 0 communities for empty graph, got %d", len(result.Communities))
	}
	if CountComponents(storage.NewGraphStorage()) != 0 {
		t.Error("Expected CountComponents 0 for empty graph")
	}
}

// TestConnectedComponents_SingleNode tests single node as one component
func TestConnectedComponents_SingleNode(t *testing.T) {
	gs := buildGraph(t, 1, nil)

	result := ConnectedComponents(gs)

	require.Len(t, result.Communities, 1)
	assert.Equal(t, []uint64{1}, result.Communities[0].Nodes)
	assert.Equal(t, 0.0, result.Communities[0].Density)
	assert.Equal(t, 0, result.NodeCommunity[1])
}

// TestConnectedComponents_DiscoveryOrder checks BFS order and component order
func TestConnectedComponents_DiscoveryOrder(t *testing.T) {
	// 1-2, 1-3, 3-4 | 5 | 6-7
	gs := buildGraph(t, 7, [][2]uint64{{1, 2}, {1, 3}, {3, 4}, {6, 7}})

	result := ConnectedComponents(gs)

	require.Len(t, result.Communities, 3)
	assert.Equal(t, []uint64{1, 2, 3, 4}, result.Communities[0].Nodes)
	assert.Equal(t, []uint64{5}, result.Communities[1].Nodes)
	assert.Equal(t, []uint64{6, 7}, result.Communities[2].Nodes)

	for i, c := range result.Communities {
		assert.Equal(t, i, c.ID)
		for _, id := range c.Nodes {
			assert.Equal(t, c.ID, result.NodeCommunity[id])
		}
	}

	assert.Equal(t, 3, CountComponents(gs))
	assertPartition(t, gs.NodeIDs(), result.Communities)
}

// TestConnectedComponents_Density tests the per-community edge density
func TestConnectedComponents_Density(t *testing.T) {
	// Triangle 1-2-3 plus path 4-5-6
	gs := buildGraph(t, 6, [][2]uint64{{1, 2}, {2, 3}, {3, 1}, {4, 5}, {5, 6}})

	result := ConnectedComponents(gs)

	require.Len(t, result.Communities, 2)
	assert.InDelta(t, 1.0, result.Communities[0].Density, 1e-12)
	assert.InDelta(t, 2.0/3.0, result.Communities[1].Density, 1e-12)
}

// TestConnectedComponents_Idempotent runs the finder twice on the same graph
func TestConnectedComponents_Idempotent(t *testing.T) {
	gs := buildTwoSquares(t)
	gs.CreateNode(nil)

	first := ConnectedComponents(gs)
	second := ConnectedComponents(gs)

	require.Len(t, second.Communities, len(first.Communities))
	for i := range first.Communities {
		assert.Equal(t, first.Communities[i].NodeSet(), second.Communities[i].NodeSet())
	}
}

// TestConnectedComponents_CustomIDs tests non-sequential node identifiers
func TestConnectedComponents_CustomIDs(t *testing.T) {
	gs := storage.NewGraphStorage()
	for _, id := range []uint64{40, 10, 30, 20} {
		_, err := gs.CreateNodeWithID(id, nil)
		require.NoError(t, err)
	}
	gs.CreateEdge(10, 20, "")

	result := ConnectedComponents(gs)

	require.Len(t, result.Communities, 3)
	assert.Equal(t, []uint64{40}, result.Communities[0].Nodes)
	assert.Equal(t, []uint64{10, 20}, result.Communities[1].Nodes)
	assert.Equal(t, []uint64{30}, result.Communities[2].Nodes)
	assert.True(t, result.Communities[1].Contains(20))
	assert.False(t, result.Communities[1].Contains(30))

	assert.Equal(t, [][]uint64{{40}, {10, 20}, {30}}, result.Partition())
}
