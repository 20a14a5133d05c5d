package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Text fixtures hold one record per line:
//
//	# comment
//	Node <id>
//	Edge <a> <b>
//
// Nodes must be declared before edges that use them.

const maxLineLength = 1024 * 1024

func parseText(r io.Reader) (*Fixture, error) {
	fx := newFixture(0, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "Node":
			if len(fields) != 2 {
				return nil, &ParseError{Line: lineNo, Text: line, Cause: fmt.Errorf("%w: Node takes one ID", ErrMalformedRecord)}
			}
			id, err := parseID(lineNo, line, fields[1])
			if err != nil {
				return nil, err
			}
			if err := fx.addNode(lineNo, line, id); err != nil {
				return nil, err
			}

		case "Edge":
			if len(fields) != 3 {
				return nil, &ParseError{Line: lineNo, Text: line, Cause: fmt.Errorf("%w: Edge takes two IDs", ErrMalformedRecord)}
			}
			a, err := parseID(lineNo, line, fields[1])
			if err != nil {
				return nil, err
			}
			b, err := parseID(lineNo, line, fields[2])
			if err != nil {
				return nil, err
			}
			if err := fx.addEdge(lineNo, line, a, b); err != nil {
				return nil, err
			}

		default:
			return nil, &ParseError{Line: lineNo, Text: line, Cause: fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNo + 1, Cause: err}
	}

	return fx, nil
}

func parseID(lineNo int, line, field string) (uint64, error) {
	id, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return 0, &ParseError{Line: lineNo, Text: line, Cause: fmt.Errorf("%w: bad ID %q", ErrMalformedRecord, field)}
	}
	return id, nil
}

// writeText renders fx in the text format using fixture identifiers
func writeText(w io.Writer, fx *Fixture) error {
	bw := bufio.NewWriter(w)

	for _, id := range fx.Graph.NodeIDs() {
		fmt.Fprintf(bw, "Node %d\n", fx.FixtureID(id))
	}
	for _, edge := range fx.Graph.Edges() {
		fmt.Fprintf(bw, "Edge %d %d\n", fx.FixtureID(edge.FromNodeID), fx.FixtureID(edge.ToNodeID))
	}

	return bw.Flush()
}
