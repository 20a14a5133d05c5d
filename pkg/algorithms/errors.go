package algorithms

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGraphExhausted means the working graph ran out of edges before the
	// requested number of splits happened.
	ErrGraphExhausted = errors.New("graph exhausted: no edges left to remove")

	// ErrRemovalLimit means the configured removal cap stopped the run.
	ErrRemovalLimit = errors.New("edge removal limit reached")

	// ErrInconsistentRemoval means an edge selected for removal was not in
	// the working graph. It indicates a bookkeeping bug and is not retryable.
	ErrInconsistentRemoval = errors.New("edge selected for removal not found in working graph")

	// ErrPathCountOverflow means a shortest-path count exceeded 128 bits.
	ErrPathCountOverflow = errors.New("shortest-path count overflow")

	// ErrInvalidRounds rejects a negative split count.
	ErrInvalidRounds = errors.New("split rounds must be non-negative")
)

// AlgorithmError carries the context of a failed community detection step.
type AlgorithmError struct {
	Op     string    // Operation that failed (e.g., "remove", "EdgeBetweenness")
	Round  int       // 1-based split round, 0 when not applicable
	Source uint64    // BFS source node, 0 when not applicable
	Pair   *NodePair // Edge involved, if any
	Cause  error
}

// Error implements the error interface.
func (e *AlgorithmError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Round > 0 {
		fmt.Fprintf(&b, " round %d", e.Round)
	}
	if e.Source != 0 {
		fmt.Fprintf(&b, " source %d", e.Source)
	}
	if e.Pair != nil {
		fmt.Fprintf(&b, " edge %d-%d", e.Pair.A, e.Pair.B)
	}
	fmt.Fprintf(&b, ": %v", e.Cause)
	return b.String()
}

// Unwrap returns the underlying cause for error chain support.
func (e *AlgorithmError) Unwrap() error {
	return e.Cause
}
