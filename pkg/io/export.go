package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/reebsmooth/pkg/reeb"
	"github.com/matzehuels/reebsmooth/pkg/reeb/layout"
)

type graph struct {
	Nodes  []node       `json:"nodes"`
	Edges  []edge       `json:"edges"`
	Layout *layoutHints `json:"layout,omitempty"`
}

type node struct {
	ID    int         `json:"id"`
	Value json.Number `json:"value"`
	Side  string      `json:"side,omitempty"`
}

type edge struct {
	U      int         `json:"u"`
	V      int         `json:"v"`
	Weight json.Number `json:"weight,omitempty"`
}

type layoutHints struct {
	Positions []position `json:"positions"`
	Curves    []curve    `json:"curves"`
}

type position struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type curve struct {
	Edge   int           `json:"edge"`
	Points [4][2]float64 `json:"points"`
}

// encode converts g into its wire form. Node ids are the graph's handles.
func encode(g *reeb.Graph) graph {
	out := graph{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, node{
			ID:    int(n.ID),
			Value: json.Number(n.Value.String()),
			Side:  n.Side.String(),
		})
	}
	for _, e := range g.Edges() {
		ed := edge{U: int(e.U), V: int(e.V)}
		if !e.Weight.IsZero() {
			ed.Weight = json.Number(e.Weight.String())
		}
		out.Edges = append(out.Edges, ed)
	}
	return out
}

// WriteJSON encodes g as indented JSON and writes it to w. The output can be
// read back with [ReadJSON].
func WriteJSON(g *reeb.Graph, w io.Writer) error {
	return writeJSON(encode(g), w)
}

// WriteJSONLayout is like [WriteJSON] but also includes node positions and
// edge curves for drawing.
func WriteJSONLayout(g *reeb.Graph, w io.Writer) error {
	out := encode(g)
	pos := layout.Positions(g)
	hints := &layoutHints{}
	for _, n := range g.NodeIDs() {
		hints.Positions = append(hints.Positions, position{ID: int(n), X: pos[n].X, Y: pos[n].Y})
	}
	for _, c := range layout.Curves(g, pos) {
		cv := curve{Edge: int(c.Edge)}
		for i, pt := range c.Points {
			cv.Points[i] = [2]float64{pt.X, pt.Y}
		}
		hints.Curves = append(hints.Curves, cv)
	}
	out.Layout = hints
	return writeJSON(out, w)
}

func writeJSON(out graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *reeb.Graph, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteJSON(g, w) })
}

// Export writes g to path in the format implied by its extension.
func Export(g *reeb.Graph, path string) error {
	f, err := DetectFormat(path)
	if err != nil {
		return err
	}
	return exportFile(path, func(w io.Writer) error { return Write(w, g, f) })
}

func exportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
