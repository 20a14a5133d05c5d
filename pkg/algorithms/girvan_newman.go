package algorithms

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-communities/pkg/logging"
	"github.com/dd0wney/cluso-communities/pkg/metrics"
	"github.com/dd0wney/cluso-communities/pkg/storage"
)

// GirvanNewmanStatus describes how a run ended
type GirvanNewmanStatus int

const (
	// StatusCompleted means every requested round split the graph
	StatusCompleted GirvanNewmanStatus = iota
	// StatusExhausted means the working graph lost its last edge first
	StatusExhausted
	// StatusRemovalLimit means MaxRemovals stopped the run
	StatusRemovalLimit
	// StatusFailed means an internal error stopped the run; see Err
	StatusFailed
)

// String returns the status name used in logs, metrics and reports
func (s GirvanNewmanStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusExhausted:
		return "exhausted"
	case StatusRemovalLimit:
		return "removal_limit"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// GirvanNewmanOptions configures a Girvan-Newman run
type GirvanNewmanOptions struct {
	Rounds      int     // Split rounds to perform (k)
	Epsilon     float64 // Relative tolerance for max-score ties, 0 = exact
	MaxRemovals int     // Stop after this many removed edges, 0 = unlimited

	Logger  logging.Logger    // nil = silent
	Metrics *metrics.Registry // nil = not recorded
	OnRound func(RoundSummary)
}

// DefaultGirvanNewmanOptions returns default Girvan-Newman configuration
func DefaultGirvanNewmanOptions() GirvanNewmanOptions {
	return GirvanNewmanOptions{
		Rounds:  1,
		Epsilon: DefaultTieEpsilon,
	}
}

// RoundSummary describes one completed split round
type RoundSummary struct {
	Round            int           `json:"round" yaml:"round"`
	ComponentsBefore int           `json:"components_before" yaml:"components_before"`
	ComponentsAfter  int           `json:"components_after" yaml:"components_after"`
	EdgesRemoved     int           `json:"edges_removed" yaml:"edges_removed"`
	Iterations       int           `json:"iterations" yaml:"iterations"`
	Duration         time.Duration `json:"duration" yaml:"duration"`
}

// GirvanNewmanResult is the final partition plus removal provenance. The
// embedded detection result describes the working graph after the last
// removal; Modularity is scored against the graph before any removal.
type GirvanNewmanResult struct {
	*CommunityDetectionResult
	Removed         []NodePair     // Every removed edge, in removal order
	Rounds          []RoundSummary // One entry per completed round
	RequestedRounds int
	Status          GirvanNewmanStatus

	failure error
}

// RoundsCompleted returns how many split rounds finished
func (r *GirvanNewmanResult) RoundsCompleted() int {
	return len(r.Rounds)
}

// Err returns the condition that ended the run early, or nil if it completed.
func (r *GirvanNewmanResult) Err() error {
	switch r.Status {
	case StatusExhausted:
		return ErrGraphExhausted
	case StatusRemovalLimit:
		return ErrRemovalLimit
	case StatusFailed:
		return r.failure
	default:
		return nil
	}
}

// GirvanNewman performs k split rounds of Girvan-Newman community detection
// with default options. See GirvanNewmanWithOptions.
func GirvanNewman(graph EdgeSource, k int) (*GirvanNewmanResult, error) {
	opts := DefaultGirvanNewmanOptions()
	opts.Rounds = k
	return GirvanNewmanWithOptions(graph, opts)
}

// GirvanNewmanWithOptions builds an undirected, deduplicated working copy of
// graph and runs opts.Rounds split rounds on it. Each round repeatedly removes
// every edge tied for the highest betweenness until the component count grows.
// The input graph is never modified.
//
// Running out of edges is not an error: the partial result is returned with
// StatusExhausted. The error return is reserved for invalid arguments and
// internal failures. After an internal failure the result is still returned,
// with StatusFailed and the removals and rounds completed before it.
func GirvanNewmanWithOptions(graph EdgeSource, opts GirvanNewmanOptions) (*GirvanNewmanResult, error) {
	if opts.Rounds < 0 {
		return nil, &AlgorithmError{Op: "GirvanNewman", Cause: ErrInvalidRounds}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(logging.Component("girvan_newman"), logging.RunID(uuid.NewString()))

	working, err := buildWorkingGraph(graph)
	if err != nil {
		return nil, err
	}
	original := working.Clone()

	timer := logging.StartTimer(logger, "girvan-newman finished")
	logger.Info("girvan-newman started",
		logging.Int("nodes", working.NodeCount()),
		logging.Int("edges", working.EdgeCount()),
		logging.Int("rounds", opts.Rounds))

	run := &gnRun{
		opts:    opts,
		logger:  logger,
		working: working,
		removed: make([]NodePair, 0),
		status:  StatusCompleted,
	}

	for round := 1; round <= opts.Rounds; round++ {
		summary, done, err := run.splitRound(round)
		if err != nil {
			run.status = StatusFailed
			result := run.result(original)
			result.failure = err

			elapsed := timer.EndError(err)
			if opts.Metrics != nil {
				opts.Metrics.RecordRun(result.Status.String(), elapsed)
			}
			return result, err
		}
		if done {
			break
		}

		run.rounds = append(run.rounds, summary)
		logger.Info("split round complete",
			logging.Round(round),
			logging.Components(summary.ComponentsAfter),
			logging.Int("edges_removed", summary.EdgesRemoved),
			logging.Int("iterations", summary.Iterations),
			logging.Latency(summary.Duration))
		if opts.Metrics != nil {
			opts.Metrics.RecordRound(summary.ComponentsAfter)
		}
		if opts.OnRound != nil {
			opts.OnRound(summary)
		}
	}

	result := run.result(original)
	elapsed := timer.End(
		logging.String("status", result.Status.String()),
		logging.Components(len(result.Communities)),
		logging.Int("edges_removed", len(result.Removed)),
		logging.Float64("modularity", result.Modularity))
	if opts.Metrics != nil {
		opts.Metrics.RecordRun(result.Status.String(), elapsed)
	}

	return result, nil
}

// computeBetweenness scores the working graph each iteration
var computeBetweenness = EdgeBetweenness

// gnRun holds the mutable state of one Girvan-Newman run. It owns the
// working graph exclusively.
type gnRun struct {
	opts    GirvanNewmanOptions
	logger  logging.Logger
	working *storage.GraphStorage
	removed []NodePair
	rounds  []RoundSummary
	status  GirvanNewmanStatus
}

// result partitions the working graph as it stands and scores the partition
// against original
func (r *gnRun) result(original *storage.GraphStorage) *GirvanNewmanResult {
	detection := ConnectedComponents(r.working)
	detection.Modularity = Modularity(original, detection.Communities)

	return &GirvanNewmanResult{
		CommunityDetectionResult: detection,
		Removed:                  r.removed,
		Rounds:                   r.rounds,
		RequestedRounds:          r.opts.Rounds,
		Status:                   r.status,
	}
}

// splitRound removes tie-sets until the component count exceeds its value at
// the start of the round. done is true when the run must stop early; the
// reason is left in r.status.
func (r *gnRun) splitRound(round int) (RoundSummary, bool, error) {
	start := time.Now()
	before := CountComponents(r.working)
	summary := RoundSummary{Round: round, ComponentsBefore: before}

	current := before
	for current <= before {
		if r.opts.MaxRemovals > 0 && len(r.removed) >= r.opts.MaxRemovals {
			r.status = StatusRemovalLimit
			r.logger.Warn("edge removal limit reached",
				logging.Round(round),
				logging.Int("max_removals", r.opts.MaxRemovals))
			return summary, true, nil
		}

		betweennessStart := time.Now()
		betweenness, err := computeBetweenness(r.working)
		if err != nil {
			var ae *AlgorithmError
			if errors.As(err, &ae) {
				ae.Round = round
			}
			return summary, true, err
		}
		if r.opts.Metrics != nil {
			r.opts.Metrics.RecordBetweenness(time.Since(betweennessStart))
		}

		maxScore, ok := betweenness.Max()
		if !ok {
			r.status = StatusExhausted
			r.logger.Warn("working graph exhausted before split",
				logging.Round(round),
				logging.Components(current),
				logging.Int("rounds_completed", round-1),
				logging.Int("rounds_requested", r.opts.Rounds))
			return summary, true, nil
		}

		ties := betweenness.TieSet(maxScore, r.opts.Epsilon)
		for _, pair := range ties {
			if err := r.removeEdge(round, pair); err != nil {
				return summary, true, err
			}
		}

		current = CountComponents(r.working)
		summary.Iterations++
		summary.EdgesRemoved += len(ties)

		if r.logger.GetLevel() <= logging.DebugLevel {
			for _, pair := range ties {
				r.logger.Debug("edge removed",
					logging.Round(round),
					logging.Iteration(summary.Iterations),
					logging.EdgePair(pair.A, pair.B),
					logging.Score(maxScore))
			}
		}
		if r.opts.Metrics != nil {
			r.opts.Metrics.RecordRemoval(len(ties), r.working.EdgeCount(), current)
		}
	}

	summary.ComponentsAfter = current
	summary.Duration = time.Since(start)
	return summary, false, nil
}

// removeEdge deletes pair from the working graph and appends it to the log
func (r *gnRun) removeEdge(round int, pair NodePair) error {
	edgeID, found := r.working.FindEdge(pair.A, pair.B)
	if !found {
		p := pair
		return &AlgorithmError{Op: "remove", Round: round, Pair: &p, Cause: ErrInconsistentRemoval}
	}
	if err := r.working.DeleteEdge(edgeID); err != nil {
		p := pair
		return &AlgorithmError{Op: "remove", Round: round, Pair: &p, Cause: err}
	}
	r.removed = append(r.removed, pair)
	return nil
}

// buildWorkingGraph copies the topology of graph, keeping node IDs. Parallel
// and reciprocal edges collapse into one; self-loops are dropped since they
// lie on no shortest path and could never be selected for removal.
func buildWorkingGraph(graph EdgeSource) (*storage.GraphStorage, error) {
	nodeIDs := graph.NodeIDs()
	edges := graph.Edges()

	working := storage.NewGraphStorageWithCapacity(len(nodeIDs), len(edges))
	for _, id := range nodeIDs {
		if _, err := working.CreateNodeWithID(id, nil); err != nil {
			return nil, &AlgorithmError{Op: "build", Cause: err}
		}
	}

	seen := make(map[NodePair]struct{}, len(edges))
	for _, edge := range edges {
		if edge.FromNodeID == edge.ToNodeID {
			continue
		}
		pair := MakeNodePair(edge.FromNodeID, edge.ToNodeID)
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}

		if _, err := working.CreateEdge(pair.A, pair.B, ""); err != nil {
			p := pair
			return nil, &AlgorithmError{Op: "build", Pair: &p, Cause: err}
		}
	}

	return working, nil
}
