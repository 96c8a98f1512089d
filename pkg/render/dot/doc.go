// Package dot renders Reeb graphs as Graphviz diagrams.
//
// # Overview
//
// Function values run left to right: every critical value becomes a rank and
// all nodes at that value share it, so the drawing reads like the original
// shape swept by a horizontal level set. Edges are undirected; parallel edges
// are drawn separately so bubbles stay visible.
//
// # Usage
//
//	src := dot.ToDOT(g, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src, dot.Options{})
//
// # Options
//
//   - Labels: print each node's value inside it
//   - Pinned: place nodes at the coordinates from [layout.Positions] and lay
//     out with neato instead of letting dot choose vertical positions
//   - Scale: inches per function-value unit when Pinned
//
// Nodes created by smoothing carry a side marker; they are drawn with a
// dashed outline so the shrink copies stand out from original critical
// points.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion goes through [render.SVGToPDF] and
// [render.SVGToPNG], which need rsvg-convert.
//
// [layout.Positions]: github.com/matzehuels/reebsmooth/pkg/reeb/layout.Positions
// [render.SVGToPDF]: github.com/matzehuels/reebsmooth/pkg/render.SVGToPDF
// [render.SVGToPNG]: github.com/matzehuels/reebsmooth/pkg/render.SVGToPNG
package dot
