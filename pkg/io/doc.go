// Package io reads and writes Reeb graphs.
//
// # Overview
//
// Three encodings are supported, chosen by [DetectFormat] from the file
// extension:
//
//   - JSON (.json): the canonical interchange format
//   - YAML (.yaml, .yml): the same structure, for hand-written inputs
//   - Literal (.txt, .reeb): two lines, a value list and a pair list
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": 0, "value": 0},
//	    {"id": 1, "value": 1.5, "side": "left"}
//	  ],
//	  "edges": [
//	    {"u": 0, "v": 1}
//	  ]
//	}
//
// Node ids are arbitrary distinct integers; they are mapped to fresh handles
// on import. Values may be JSON numbers or decimal strings and are rounded to
// the [level.Precision] passed to the reader, never parsed through float64.
// The optional side is "left" or "right". Edge weights are written on export
// and ignored on import, since they always follow from the values.
//
// # Literal Format
//
//	[0, 1, 3]
//	[(0, 1), (0, 1), (1, 2), (1, 2)]
//
// The first line lists node values, node i taking the i-th value; the second
// lists edges as index pairs. Parallel edges are written as repeated pairs.
//
// # Layout Export
//
// [WriteJSONLayout] adds the drawing hints from [layout.Positions] and
// [layout.Curves] to the JSON export for external renderers.
//
// # Import and Export
//
//	g, err := io.Import("graph.json", level.DefaultPrecision)
//	err = io.Export(g, "smoothed.yaml")
//
// All readers validate the graph: unknown node ids, self-loops and edges
// between equal values are rejected with the [reeb] sentinel errors wrapped
// in context.
//
// [layout.Positions]: github.com/matzehuels/reebsmooth/pkg/reeb/layout.Positions
// [layout.Curves]: github.com/matzehuels/reebsmooth/pkg/reeb/layout.Curves
package io
