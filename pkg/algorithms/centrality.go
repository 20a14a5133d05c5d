package algorithms

import (
	"container/heap"
	"container/list"
	"math"
	"math/bits"
	"sort"
)

// NodePair is the canonical key of an undirected edge: A <= B.
type NodePair struct {
	A uint64 `json:"a" yaml:"a"`
	B uint64 `json:"b" yaml:"b"`
}

// MakeNodePair orders u and v into a canonical NodePair
func MakeNodePair(u, v uint64) NodePair {
	if u > v {
		u, v = v, u
	}
	return NodePair{A: u, B: v}
}

// Less orders pairs by A, then B
func (p NodePair) Less(o NodePair) bool {
	if p.A != o.A {
		return p.A < o.A
	}
	return p.B < o.B
}

// BetweennessMap maps each edge to its accumulated betweenness. Edges that
// carry no shortest path are absent.
type BetweennessMap map[NodePair]float64

// DefaultTieEpsilon is the relative tolerance used when grouping edges that
// share the maximum score.
const DefaultTieEpsilon = 1e-9

// EdgeBetweenness computes unweighted edge betweenness with one Brandes pass
// per source node. Every ordered (source, target) pair contributes, so each
// undirected pair is counted from both endpoints and scores are not halved:
// a tree edge separating L and R nodes scores 2*L*R.
//
// The graph is expected to be simple; parallel edges inflate path counts.
func EdgeBetweenness(graph Graph) (BetweennessMap, error) {
	nodeIDs := graph.NodeIDs()
	betweenness := make(BetweennessMap)

	for _, source := range nodeIDs {
		if err := accumulateEdgeDependencies(graph, source, len(nodeIDs), betweenness); err != nil {
			return nil, err
		}
	}

	return betweenness, nil
}

// pathCount is an unsigned 128-bit shortest-path counter
type pathCount struct {
	hi, lo uint64
}

// add returns p+q; overflow is true when the sum needs more than 128 bits
func (p pathCount) add(q pathCount) (sum pathCount, overflow bool) {
	lo, carry := bits.Add64(p.lo, q.lo, 0)
	hi, carry := bits.Add64(p.hi, q.hi, carry)
	return pathCount{hi: hi, lo: lo}, carry != 0
}

func (p pathCount) toFloat() float64 {
	return math.Ldexp(float64(p.hi), 64) + float64(p.lo)
}

// accumulateEdgeDependencies runs BFS from source and folds the back-propagated
// dependencies into betweenness. All scratch state is local to the call.
func accumulateEdgeDependencies(graph Graph, source uint64, sizeHint int, betweenness BetweennessMap) error {
	stack := make([]uint64, 0, sizeHint)
	predecessors := make(map[uint64][]uint64, sizeHint)
	sigma := make(map[uint64]pathCount, sizeHint)
	distance := make(map[uint64]int, sizeHint)

	sigma[source] = pathCount{lo: 1}
	distance[source] = 0

	queue := list.New()
	queue.PushBack(source)

	for queue.Len() > 0 {
		v, ok := queue.Remove(queue.Front()).(uint64)
		if !ok {
			continue
		}
		stack = append(stack, v)

		for _, w := range graph.Neighbors(v) {
			if _, seen := distance[w]; !seen {
				queue.PushBack(w)
				distance[w] = distance[v] + 1
			}

			if distance[w] == distance[v]+1 {
				sum, overflow := sigma[w].add(sigma[v])
				if overflow {
					return &AlgorithmError{Op: "EdgeBetweenness", Source: source, Cause: ErrPathCountOverflow}
				}
				sigma[w] = sum
				predecessors[w] = append(predecessors[w], v)
			}
		}
	}

	// Back-propagation in reverse BFS order; the source has no predecessors
	delta := make(map[uint64]float64, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		preds := predecessors[w]
		if len(preds) == 0 {
			continue
		}

		coeff := (1.0 + delta[w]) / sigma[w].toFloat()
		for _, v := range preds {
			contribution := coeff * sigma[v].toFloat()
			betweenness[MakeNodePair(v, w)] += contribution
			delta[v] += contribution
		}
	}

	return nil
}

// Pairs returns every key in canonical order
func (m BetweennessMap) Pairs() []NodePair {
	pairs := make([]NodePair, 0, len(m))
	for pair := range m {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Less(pairs[j]) })
	return pairs
}

// Max returns the highest score. ok is false when the map is empty.
// The scan runs in canonical pair order so the result does not depend on
// map iteration order.
func (m BetweennessMap) Max() (maxScore float64, ok bool) {
	for _, pair := range m.Pairs() {
		score := m[pair]
		if !ok || score > maxScore {
			maxScore = score
			ok = true
		}
	}
	return maxScore, ok
}

// TieSet returns, in canonical order, every pair whose score lies within
// epsilon of maxScore. The tolerance is relative to maxScore with a floor of
// 1, and epsilon 0 demands exact equality. Grouping near-equal scores is
// intentional: floating-point accumulation order differs per edge, so
// symmetric edges would otherwise drift apart in the last bits.
func (m BetweennessMap) TieSet(maxScore, epsilon float64) []NodePair {
	if epsilon < 0 || math.IsNaN(epsilon) {
		epsilon = 0
	}
	tolerance := epsilon * math.Max(1.0, math.Abs(maxScore))

	ties := make([]NodePair, 0, 1)
	for _, pair := range m.Pairs() {
		if maxScore-m[pair] <= tolerance {
			ties = append(ties, pair)
		}
	}
	return ties
}

// RankedEdge holds an edge with its betweenness score.
type RankedEdge struct {
	Pair  NodePair `json:"pair" yaml:"pair"`
	Score float64  `json:"score" yaml:"score"`
}

// rankedEdgeHeap implements a min-heap for RankedEdge by score, with the
// larger pair treated as smaller so ties keep the canonically first pairs.
type rankedEdgeHeap []RankedEdge

func (h rankedEdgeHeap) Len() int { return len(h) }
func (h rankedEdgeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[j].Pair.Less(h[i].Pair)
}
func (h rankedEdgeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankedEdgeHeap) Push(x any) {
	*h = append(*h, x.(RankedEdge))
}

func (h *rankedEdgeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Ranked returns the top n edges by score descending, then pair ascending.
// n <= 0 returns every edge.
func (m BetweennessMap) Ranked(n int) []RankedEdge {
	if n <= 0 || n > len(m) {
		n = len(m)
	}
	if n == 0 {
		return nil
	}

	h := make(rankedEdgeHeap, 0, n)
	heap.Init(&h)

	for _, pair := range m.Pairs() {
		re := RankedEdge{Pair: pair, Score: m[pair]}
		if h.Len() < n {
			heap.Push(&h, re)
		} else if rankedBefore(re, h[0]) {
			heap.Pop(&h)
			heap.Push(&h, re)
		}
	}

	result := make([]RankedEdge, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedEdge)
	}
	return result
}

// rankedBefore reports whether a outranks b
func rankedBefore(a, b RankedEdge) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Pair.Less(b.Pair)
}
