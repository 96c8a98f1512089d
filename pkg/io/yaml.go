package io

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// yamlGraph mirrors graph with plain string values, which yaml.v3 fills from
// any scalar without going through float64.
type yamlGraph struct {
	Nodes []yamlNode `yaml:"nodes"`
	Edges []yamlEdge `yaml:"edges"`
}

type yamlNode struct {
	ID    int    `yaml:"id"`
	Value string `yaml:"value"`
	Side  string `yaml:"side,omitempty"`
}

type yamlEdge struct {
	U      int    `yaml:"u"`
	V      int    `yaml:"v"`
	Weight string `yaml:"weight,omitempty"`
}

// WriteYAML encodes g as YAML.
func WriteYAML(g *reeb.Graph, w io.Writer) error {
	src := encode(g)
	out := yamlGraph{
		Nodes: make([]yamlNode, len(src.Nodes)),
		Edges: make([]yamlEdge, len(src.Edges)),
	}
	for i, n := range src.Nodes {
		out.Nodes[i] = yamlNode{ID: n.ID, Value: n.Value.String(), Side: n.Side}
	}
	for i, e := range src.Edges {
		out.Edges[i] = yamlEdge{U: e.U, V: e.V, Weight: e.Weight.String()}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a YAML graph from r, rounding every value to p. It accepts
// the same structure and reports the same errors as [ReadJSON].
func ReadYAML(r io.Reader, p level.Precision) (*reeb.Graph, error) {
	var data yamlGraph
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	g := graph{
		Nodes: make([]node, len(data.Nodes)),
		Edges: make([]edge, len(data.Edges)),
	}
	for i, n := range data.Nodes {
		g.Nodes[i] = node{ID: n.ID, Value: json.Number(n.Value), Side: n.Side}
	}
	for i, e := range data.Edges {
		g.Edges[i] = edge{U: e.U, V: e.V}
	}
	return decode(g, p)
}
