package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/storage"
)

func main() {
	clusters := flag.Int("clusters", 4, "Number of planted communities")
	size := flag.Int("size", 25, "Nodes per community")
	pIn := flag.Float64("p-in", 0.3, "Edge probability inside a community")
	pOut := flag.Float64("p-out", 0.01, "Edge probability between communities")
	rounds := flag.Int("rounds", 3, "Girvan-Newman split rounds")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	fmt.Printf("Girvan-Newman Benchmark\n")
	fmt.Printf("=======================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Communities: %d x %d nodes\n", *clusters, *size)
	fmt.Printf("  p_in: %.3f  p_out: %.3f\n", *pIn, *pOut)
	fmt.Printf("  Rounds: %d\n\n", *rounds)

	start := time.Now()
	graph := plantedPartition(*clusters, *size, *pIn, *pOut, rand.New(rand.NewSource(*seed)))
	fmt.Printf("Generated %d nodes and %d edges in %v\n", graph.NodeCount(), graph.EdgeCount(), time.Since(start))

	// Benchmark 1: Connected Components
	fmt.Printf("\nBenchmark 1: Connected Components\n")
	start = time.Now()
	components := algorithms.ConnectedComponents(graph)
	fmt.Printf("  Completed in %v\n", time.Since(start))
	fmt.Printf("  Components: %d, largest: %d nodes\n", len(components.Communities), findLargestComponent(components))

	// Benchmark 2: Edge Betweenness
	fmt.Printf("\nBenchmark 2: Edge Betweenness\n")
	start = time.Now()
	betweenness, err := algorithms.EdgeBetweenness(graph)
	if err != nil {
		log.Fatalf("Edge betweenness failed: %v", err)
	}
	fmt.Printf("  Completed in %v\n", time.Since(start))
	fmt.Printf("  Top 5 edges by betweenness:\n")
	for i, edge := range betweenness.Ranked(5) {
		fmt.Printf("    %d. %d-%d (score: %.3f)\n", i+1, edge.Pair.A, edge.Pair.B, edge.Score)
	}

	// Benchmark 3: Girvan-Newman
	fmt.Printf("\nBenchmark 3: Girvan-Newman (%d rounds)\n", *rounds)
	opts := algorithms.DefaultGirvanNewmanOptions()
	opts.Rounds = *rounds
	opts.OnRound = func(s algorithms.RoundSummary) {
		fmt.Printf("  Round %d: %d -> %d components, %d edges removed in %d iterations (%v)\n",
			s.Round, s.ComponentsBefore, s.ComponentsAfter, s.EdgesRemoved, s.Iterations, s.Duration)
	}

	start = time.Now()
	result, err := algorithms.GirvanNewmanWithOptions(graph, opts)
	if err != nil {
		log.Fatalf("Girvan-Newman failed: %v", err)
	}
	duration := time.Since(start)

	fmt.Printf("  Completed in %v with status %s\n", duration, result.Status)
	fmt.Printf("  Communities: %d, largest: %d nodes\n", len(result.Communities), findLargestComponent(result.CommunityDetectionResult))
	fmt.Printf("  Modularity: %.4f\n", result.Modularity)
	fmt.Printf("  Planted partition modularity: %.4f\n", algorithms.Modularity(graph, plantedCommunities(*clusters, *size)))

	fmt.Printf("\nBenchmark complete!\n")
}

// plantedPartition builds clusters*size nodes where node i belongs to
// community i/size
func plantedPartition(clusters, size int, pIn, pOut float64, rng *rand.Rand) *storage.GraphStorage {
	n := clusters * size
	graph := storage.NewGraphStorageWithCapacity(n, 0)
	for i := 0; i < n; i++ {
		if _, err := graph.CreateNode([]string{"Member"}); err != nil {
			log.Fatalf("Failed to create node: %v", err)
		}
	}

	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			p := pOut
			if a/size == b/size {
				p = pIn
			}
			if rng.Float64() < p {
				if _, err := graph.CreateEdge(uint64(a+1), uint64(b+1), "LINKS"); err != nil {
					log.Printf("Warning: Failed to create edge: %v", err)
				}
			}
		}
	}
	return graph
}

func plantedCommunities(clusters, size int) []*algorithms.Community {
	communities := make([]*algorithms.Community, clusters)
	for c := range communities {
		nodes := make([]uint64, size)
		for i := range nodes {
			nodes[i] = uint64(c*size + i + 1)
		}
		communities[c] = &algorithms.Community{ID: c, Nodes: nodes, Size: size}
	}
	return communities
}

func findLargestComponent(result *algorithms.CommunityDetectionResult) int {
	maxSize := 0
	for _, community := range result.Communities {
		if community.Size > maxSize {
			maxSize = community.Size
		}
	}
	return maxSize
}
