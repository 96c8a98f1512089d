package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// ReadJSON decodes a JSON graph from r, rounding every value to p.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - Two nodes share an id
//   - A value is not a decimal number
//   - An edge references an unknown node id, is a self-loop, or joins two
//     equal values
//
// Errors are wrapped with context describing which node or edge caused the
// problem; use errors.Is with the [reeb] sentinels to classify them.
// ReadJSON does not close r.
func ReadJSON(r io.Reader, p level.Precision) (*reeb.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return decode(data, p)
}

// decode builds a graph from its wire form.
func decode(data graph, p level.Precision) (*reeb.Graph, error) {
	g := reeb.New()
	ids := make(map[int]reeb.NodeID, len(data.Nodes))
	for _, n := range data.Nodes {
		if _, dup := ids[n.ID]; dup {
			return nil, fmt.Errorf("node %d: duplicate id", n.ID)
		}
		v, err := p.Parse(n.Value.String())
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
		side, err := reeb.ParseSide(n.Side)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
		ids[n.ID] = g.AddSidedNode(v, side)
	}
	for _, e := range data.Edges {
		u, ok := ids[e.U]
		if !ok {
			return nil, fmt.Errorf("edge %d-%d: %w %d", e.U, e.V, reeb.ErrUnknownNode, e.U)
		}
		v, ok := ids[e.V]
		if !ok {
			return nil, fmt.Errorf("edge %d-%d: %w %d", e.U, e.V, reeb.ErrUnknownNode, e.V)
		}
		if _, err := g.AddEdge(u, v); err != nil {
			return nil, fmt.Errorf("edge %d-%d: %w", e.U, e.V, err)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string, p level.Precision) (*reeb.Graph, error) {
	return importFile(path, func(r io.Reader) (*reeb.Graph, error) { return ReadJSON(r, p) })
}

// Import reads the graph at path in the format implied by its extension.
func Import(path string, p level.Precision) (*reeb.Graph, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return importFile(path, func(r io.Reader) (*reeb.Graph, error) { return Read(r, f, p) })
}

func importFile(path string, read func(io.Reader) (*reeb.Graph, error)) (*reeb.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}
