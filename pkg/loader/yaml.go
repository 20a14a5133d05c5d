package loader

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlFixture is the YAML fixture layout:
//
//	nodes: [0, 1, 2]
//	edges:
//	  - [0, 1]
//	  - [1, 2]
//
// Entries are kept as raw nodes so errors can carry line numbers.
type yamlFixture struct {
	Nodes []yaml.Node `yaml:"nodes"`
	Edges []yaml.Node `yaml:"edges"`
}

type yamlOutput struct {
	Nodes []uint64    `yaml:"nodes"`
	Edges [][2]uint64 `yaml:"edges,flow"`
}

func parseYAML(r io.Reader) (*Fixture, error) {
	var doc yamlFixture
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return newFixture(0, 0), nil
		}
		return nil, &ParseError{Cause: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
	}

	fx := newFixture(len(doc.Nodes), len(doc.Edges))

	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		var id uint64
		if err := n.Decode(&id); err != nil {
			return nil, &ParseError{Line: n.Line, Text: n.Value, Cause: fmt.Errorf("%w: bad node ID", ErrMalformedRecord)}
		}
		if err := fx.addNode(n.Line, n.Value, id); err != nil {
			return nil, err
		}
	}

	for i := range doc.Edges {
		n := &doc.Edges[i]
		var pair []uint64
		if err := n.Decode(&pair); err != nil || len(pair) != 2 {
			return nil, &ParseError{Line: n.Line, Cause: fmt.Errorf("%w: edge must be a pair of node IDs", ErrMalformedRecord)}
		}
		if err := fx.addEdge(n.Line, "", pair[0], pair[1]); err != nil {
			return nil, err
		}
	}

	return fx, nil
}

func writeYAML(w io.Writer, fx *Fixture) error {
	out := yamlOutput{
		Nodes: make([]uint64, 0, fx.NodeCount()),
		Edges: make([][2]uint64, 0, fx.EdgeCount()),
	}
	for _, id := range fx.Graph.NodeIDs() {
		out.Nodes = append(out.Nodes, fx.FixtureID(id))
	}
	for _, edge := range fx.Graph.Edges() {
		out.Edges = append(out.Edges, [2]uint64{fx.FixtureID(edge.FromNodeID), fx.FixtureID(edge.ToNodeID)})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
