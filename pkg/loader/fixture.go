package loader

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-communities/pkg/storage"
)

var (
	ErrUnknownFormat   = errors.New("unknown fixture format")
	ErrUnknownNode     = errors.New("edge references undeclared node")
	ErrDuplicateNode   = errors.New("node declared twice")
	ErrUnknownCommand  = errors.New("unknown directive")
	ErrMalformedRecord = errors.New("malformed record")
)

// ParseError reports a fixture problem at a specific line. Line is 0 when
// the position is unknown.
type ParseError struct {
	Line  int
	Text  string
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("fixture: %v", e.Cause)
	}
	if e.Text != "" {
		return fmt.Sprintf("fixture line %d %q: %v", e.Line, e.Text, e.Cause)
	}
	return fmt.Sprintf("fixture line %d: %v", e.Line, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Fixture is a loaded graph plus the mapping between the identifiers used in
// the fixture file and the IDs allocated by the graph. Fixture identifiers
// may be 0, which the graph reserves, so they are never used as graph IDs
// directly.
type Fixture struct {
	Graph *storage.GraphStorage

	toGraph   map[uint64]uint64
	toFixture map[uint64]uint64
}

func newFixture(nodeHint, edgeHint int) *Fixture {
	return &Fixture{
		Graph:     storage.NewGraphStorageWithCapacity(nodeHint, edgeHint),
		toGraph:   make(map[uint64]uint64, nodeHint),
		toFixture: make(map[uint64]uint64, nodeHint),
	}
}

// GraphID returns the graph ID allocated for a fixture identifier
func (f *Fixture) GraphID(fixtureID uint64) (uint64, bool) {
	id, ok := f.toGraph[fixtureID]
	return id, ok
}

// FixtureID returns the fixture identifier of a graph node. IDs the fixture
// never declared are returned unchanged.
func (f *Fixture) FixtureID(graphID uint64) uint64 {
	if id, ok := f.toFixture[graphID]; ok {
		return id
	}
	return graphID
}

// NodeCount returns the number of declared nodes
func (f *Fixture) NodeCount() int {
	return f.Graph.NodeCount()
}

// EdgeCount returns the number of edge records, duplicates included
func (f *Fixture) EdgeCount() int {
	return f.Graph.EdgeCount()
}

func (f *Fixture) addNode(line int, text string, fixtureID uint64) error {
	if _, exists := f.toGraph[fixtureID]; exists {
		return &ParseError{Line: line, Text: text, Cause: fmt.Errorf("%w: %d", ErrDuplicateNode, fixtureID)}
	}

	node, err := f.Graph.CreateNode(nil)
	if err != nil {
		return &ParseError{Line: line, Text: text, Cause: err}
	}
	f.toGraph[fixtureID] = node.ID
	f.toFixture[node.ID] = fixtureID
	return nil
}

func (f *Fixture) addEdge(line int, text string, a, b uint64) error {
	from, ok := f.toGraph[a]
	if !ok {
		return &ParseError{Line: line, Text: text, Cause: fmt.Errorf("%w: %d", ErrUnknownNode, a)}
	}
	to, ok := f.toGraph[b]
	if !ok {
		return &ParseError{Line: line, Text: text, Cause: fmt.Errorf("%w: %d", ErrUnknownNode, b)}
	}

	if _, err := f.Graph.CreateEdge(from, to, ""); err != nil {
		return &ParseError{Line: line, Text: text, Cause: err}
	}
	return nil
}
