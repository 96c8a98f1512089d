// Package reeb provides the Reeb graph: an undirected multigraph whose nodes
// carry a fixed-precision function value.
//
// # Overview
//
// A Reeb graph summarises the level sets of a scalar function on a shape.
// Nodes sit at critical levels and edges connect levels monotonically. This
// package holds the data structure only; the scale-space smoothing that
// operates on it lives in [smooth].
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.AddNode] and edges with
// [Graph.AddEdge]:
//
//	p := level.DefaultPrecision
//	g := reeb.New()
//	lo := g.AddNode(p.MustParse("0"))
//	hi := g.AddNode(p.MustParse("1"))
//	g.AddEdge(lo, hi)
//	g.AddEdge(lo, hi) // parallel edge: a bubble
//
// [FromValues] builds a graph directly from the loader contract: a
// node-indexed slice of values plus an edge list of index pairs.
//
// # Handles
//
// Node and edge handles come from monotonic allocators and are never derived
// from the current maximum, so removing nodes can never cause two nodes to
// share a handle. [Graph.Compact] returns a copy renumbered to the dense
// range 0..n-1, which is the form every smoothing step hands back to callers.
//
// # Edge Weights
//
// Each edge carries a weight that must equal |f(u) - f(v)|. Weights are
// derived data: [Graph.AddEdge] leaves them at zero and smooth.LabelEdges
// recomputes them. [Graph.CheckWeights] verifies the invariant.
//
// # Side Markers
//
// Nodes created while shrinking an interval or extending the domain record
// which way their relevant spacing points ([SideLeft], [SideRight]). The
// marker is a layout hint for renderers and carries no topological meaning.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Smoothing functions never
// mutate their input graph, so a graph that is only read may be shared.
//
// [smooth]: github.com/matzehuels/reebsmooth/pkg/reeb/smooth
package reeb
