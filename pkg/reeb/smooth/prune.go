package smooth

import (
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// IsRedundant reports whether n is a regular point of g: it has exactly two
// incident edges, leading to two distinct neighbours, one strictly below and
// one strictly above it. Such a node only subdivides a monotone path.
func IsRedundant(g *reeb.Graph, n reeb.NodeID) bool {
	_, _, ok := monotoneNeighbors(g, n)
	return ok
}

func monotoneNeighbors(g *reeb.Graph, n reeb.NodeID) (lo, hi reeb.NodeID, ok bool) {
	if g.Degree(n) != 2 {
		return 0, 0, false
	}
	nb := g.Neighbors(n)
	a, b := nb[0], nb[1]
	if a == b {
		return 0, 0, false
	}
	fn, fa, fb := mustValue(g, n), mustValue(g, a), mustValue(g, b)
	switch {
	case fa.Less(fn) && fn.Less(fb):
		return a, b, true
	case fb.Less(fn) && fn.Less(fa):
		return b, a, true
	}
	return 0, 0, false
}

// Prune splices out every redundant node, replacing the two-edge path through
// it by a single edge. Candidates are collected up front and re-checked as
// they are removed, so earlier splices are taken into account. The result is
// compact; new edges are unlabelled.
//
// Splicing never changes the degree of a surviving node, so one sweep leaves
// no redundant node behind.
func Prune(g *reeb.Graph) *reeb.Graph {
	out := g.Clone()
	var candidates []reeb.NodeID
	for _, id := range out.NodeIDs() {
		if out.Degree(id) == 2 {
			candidates = append(candidates, id)
		}
	}
	for _, n := range candidates {
		lo, hi, ok := monotoneNeighbors(out, n)
		if !ok {
			continue
		}
		out.RemoveNode(n)
		connect(out, lo, hi)
	}
	return out.Compact()
}
