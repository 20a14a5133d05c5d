package algorithms

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-communities/pkg/storage"
)

func TestMakeNodePair(t *testing.T) {
	assert.Equal(t, NodePair{A: 2, B: 5}, MakeNodePair(5, 2))
	assert.Equal(t, NodePair{A: 2, B: 5}, MakeNodePair(2, 5))
	assert.True(t, NodePair{A: 1, B: 9}.Less(NodePair{A: 2, B: 3}))
	assert.True(t, NodePair{A: 2, B: 3}.Less(NodePair{A: 2, B: 4}))
	assert.False(t, NodePair{A: 2, B: 4}.Less(NodePair{A: 2, B: 4}))
}

// TestEdgeBetweenness_EmptyAndIsolated tests graphs without edges
func TestEdgeBetweenness_EmptyAndIsolated(t *testing.T) {
	bc, err := EdgeBetweenness(storage.NewGraphStorage())
	require.NoError(t, err)
	assert.Empty(t, bc)

	bc, err = EdgeBetweenness(buildGraph(t, 3, nil))
	require.NoError(t, err)
	assert.Empty(t, bc)

	_, ok := bc.Max()
	assert.False(t, ok, "Max() on empty map must report no maximum")
}

// TestEdgeBetweenness_LinearChain tests 1-2-3-4
func TestEdgeBetweenness_LinearChain(t *testing.T) {
	gs := buildGraph(t, 4, [][2]uint64{{1, 2}, {2, 3}, {3, 4}})

	bc, err := EdgeBetweenness(gs)
	require.NoError(t, err)

	// Counted from both endpoints: 2 * left * right
	expected := BetweennessMap{
		{A: 1, B: 2}: 6,
		{A: 2, B: 3}: 8,
		{A: 3, B: 4}: 6,
	}
	require.Len(t, bc, len(expected))
	for pair, want := range expected {
		assert.InDelta(t, want, bc[pair], 1e-9, "edge %v", pair)
	}
}

// TestEdgeBetweenness_Square tests split shortest paths on a 4-cycle
func TestEdgeBetweenness_Square(t *testing.T) {
	gs := buildGraph(t, 4, [][2]uint64{{1, 2}, {2, 3}, {3, 4}, {4, 1}})

	bc, err := EdgeBetweenness(gs)
	require.NoError(t, err)

	// Each edge: 2 for its endpoints plus 4 half-paths between opposite corners
	require.Len(t, bc, 4)
	for pair, score := range bc {
		assert.InDelta(t, 4.0, score, 1e-9, "edge %v", pair)
	}

	maxScore, ok := bc.Max()
	require.True(t, ok)
	assert.Equal(t, []NodePair{{1, 2}, {1, 4}, {2, 3}, {3, 4}}, bc.TieSet(maxScore, DefaultTieEpsilon))
}

// TestEdgeBetweenness_TwoSquares tests that the bridge dominates
func TestEdgeBetweenness_TwoSquares(t *testing.T) {
	gs := buildTwoSquares(t)

	bc, err := EdgeBetweenness(gs)
	require.NoError(t, err)

	require.Len(t, bc, 9)
	assert.InDelta(t, 32.0, bc[MakeNodePair(nodeB, nodeE)], 1e-9)
	assert.InDelta(t, 16.0, bc[MakeNodePair(nodeA, nodeB)], 1e-9)

	maxScore, ok := bc.Max()
	require.True(t, ok)
	assert.InDelta(t, 32.0, maxScore, 1e-9)
	assert.Equal(t, []NodePair{{A: nodeB, B: nodeE}}, bc.TieSet(maxScore, DefaultTieEpsilon))
}

// TestEdgeBetweenness_TreeFormula checks 2*L*R on a small hand-built tree
func TestEdgeBetweenness_TreeFormula(t *testing.T) {
	//      1
	//     / \
	//    2   3
	//   / \   \
	//  4   5   6
	//          |
	//          7
	edges := [][2]uint64{{1, 2}, {1, 3}, {2, 4}, {2, 5}, {3, 6}, {6, 7}}
	gs := buildGraph(t, 7, edges)

	bc, err := EdgeBetweenness(gs)
	require.NoError(t, err)

	for _, e := range edges {
		left, right := treeSides(gs, e[0], e[1])
		want := float64(2 * left * right)
		assert.InDelta(t, want, bc[MakeNodePair(e[0], e[1])], 1e-9, "edge %v", e)
	}
}

// TestEdgeBetweenness_Disconnected tests that components do not interact
func TestEdgeBetweenness_Disconnected(t *testing.T) {
	gs := buildGraph(t, 5, [][2]uint64{{1, 2}, {3, 4}, {4, 5}})

	bc, err := EdgeBetweenness(gs)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, bc[NodePair{1, 2}], 1e-9)
	assert.InDelta(t, 4.0, bc[NodePair{3, 4}], 1e-9)
	assert.InDelta(t, 4.0, bc[NodePair{4, 5}], 1e-9)
}

// TestEdgeBetweenness_PathCountsPast64Bits chains 80 diamonds so path counts
// from the ends reach 2^80.
func TestEdgeBetweenness_PathCountsPast64Bits(t *testing.T) {
	const diamonds = 80
	gs := buildDiamondChain(t, diamonds)

	bc, err := EdgeBetweenness(gs)
	require.NoError(t, err)
	require.Len(t, bc, 4*diamonds)

	sum := 0.0
	for _, score := range bc {
		sum += score
	}
	expected := totalDistance(gs)
	assert.InDelta(t, expected, sum, expected*1e-9)

	// The two arms of each diamond are mirror images
	for i := 0; i < diamonds; i++ {
		prev := uint64(3*i + 1)
		left, right, next := prev+1, prev+2, prev+3
		assert.InDelta(t, bc[MakeNodePair(prev, left)], bc[MakeNodePair(prev, right)], 1e-6, "diamond %d", i)
		assert.InDelta(t, bc[MakeNodePair(left, next)], bc[MakeNodePair(right, next)], 1e-6, "diamond %d", i)
	}

	// Edge 1-2 carries the pair (1,2), half of the paths from node 1 to
	// the 238 nodes past the first diamond, and half of those between 2 and
	// 3; each pair counts from both ends: 2 + 238 + 1.
	assert.InDelta(t, 241.0, bc[MakeNodePair(1, 2)], 1e-6)
}

// TestEdgeBetweenness_PathCountOverflow chains 128 diamonds so the number of
// shortest paths from the first node reaches 2^128.
func TestEdgeBetweenness_PathCountOverflow(t *testing.T) {
	gs := buildDiamondChain(t, 128)

	_, err := EdgeBetweenness(gs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPathCountOverflow))

	var ae *AlgorithmError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, uint64(1), ae.Source)
}

func TestPathCount_Add(t *testing.T) {
	tests := []struct {
		name     string
		a, b     pathCount
		expected pathCount
		overflow bool
		float    float64
	}{
		{"small", pathCount{lo: 2}, pathCount{lo: 3}, pathCount{lo: 5}, false, 5},
		{"carry into high word", pathCount{lo: math.MaxUint64}, pathCount{lo: 1}, pathCount{hi: 1}, false, math.Ldexp(1, 64)},
		{"2^63 doubled", pathCount{lo: 1 << 63}, pathCount{lo: 1 << 63}, pathCount{hi: 1}, false, math.Ldexp(1, 64)},
		{"high words", pathCount{hi: 3, lo: 1}, pathCount{hi: 4, lo: 2}, pathCount{hi: 7, lo: 3}, false, math.Ldexp(7, 64) + 3},
		{"128-bit overflow", pathCount{hi: 1 << 63}, pathCount{hi: 1 << 63}, pathCount{}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, overflow := tt.a.add(tt.b)
			assert.Equal(t, tt.overflow, overflow)
			assert.Equal(t, tt.expected, sum)
			assert.Equal(t, tt.float, sum.toFloat())
		})
	}
}

func TestBetweennessMap_TieSetEpsilon(t *testing.T) {
	bc := BetweennessMap{
		{A: 3, B: 4}: 10.0,
		{A: 1, B: 2}: 10.0 - 1e-12,
		{A: 2, B: 3}: 9.5,
	}

	maxScore, ok := bc.Max()
	require.True(t, ok)
	assert.Equal(t, 10.0, maxScore)

	assert.Equal(t, []NodePair{{1, 2}, {3, 4}}, bc.TieSet(maxScore, DefaultTieEpsilon))
	assert.Equal(t, []NodePair{{3, 4}}, bc.TieSet(maxScore, 0))
	assert.Equal(t, []NodePair{{3, 4}}, bc.TieSet(maxScore, -1))
	assert.Equal(t, []NodePair{{1, 2}, {2, 3}, {3, 4}}, bc.TieSet(maxScore, 0.1))
	assert.Equal(t, []NodePair{{3, 4}}, bc.TieSet(maxScore, math.NaN()))
}

func TestBetweennessMap_Ranked(t *testing.T) {
	bc := BetweennessMap{
		{A: 1, B: 2}: 4,
		{A: 2, B: 3}: 8,
		{A: 3, B: 4}: 4,
		{A: 1, B: 4}: 1,
		{A: 0, B: 9}: 4,
	}

	top := bc.Ranked(3)
	require.Len(t, top, 3)
	assert.Equal(t, RankedEdge{Pair: NodePair{2, 3}, Score: 8}, top[0])
	assert.Equal(t, RankedEdge{Pair: NodePair{0, 9}, Score: 4}, top[1])
	assert.Equal(t, RankedEdge{Pair: NodePair{1, 2}, Score: 4}, top[2])

	all := bc.Ranked(0)
	require.Len(t, all, 5)
	assert.Equal(t, NodePair{1, 4}, all[4].Pair)

	assert.Nil(t, BetweennessMap{}.Ranked(5))
}

// treeSides counts nodes on each side of edge (u,v) in an acyclic graph
func treeSides(g Graph, u, v uint64) (int, int) {
	count := func(start, blocked uint64) int {
		visited := map[uint64]bool{start: true, blocked: true}
		stack := []uint64{start}
		n := 0
		for len(stack) > 0 {
			x := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n++
			for _, y := range g.Neighbors(x) {
				if !visited[y] {
					visited[y] = true
					stack = append(stack, y)
				}
			}
		}
		return n
	}
	return count(u, v), count(v, u)
}
