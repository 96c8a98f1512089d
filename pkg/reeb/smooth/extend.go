package smooth

import (
	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// ExtendBoundaries pushes the global extremes outward by eps. Every node at the
// lowest critical value gets a new neighbour at min-eps, and every node at the
// highest a new neighbour at max+eps. The new nodes are marked
// [reeb.SideRight] and [reeb.SideLeft] respectively, pointing back into the
// graph.
//
// When no node remains at an extreme of crit, the graph's own extreme is used
// instead. A graph with a single critical value is extended in both
// directions. The input is not modified; an empty crit or non-positive eps
// returns a copy.
func ExtendBoundaries(g *reeb.Graph, eps level.Value, crit []level.Value, p level.Precision) *reeb.Graph {
	out := g.Clone()
	if len(crit) == 0 || eps.Sign() <= 0 {
		return out
	}

	lo, hi := crit[0], crit[len(crit)-1]
	if cur := CriticalValues(g); len(cur) > 0 {
		// Contraction at the precision limit can lift the minimum or lower
		// the maximum.
		lo, hi = level.Min(lo, cur[0]), level.Max(hi, cur[len(cur)-1])
		if len(g.NodesAt(lo)) == 0 {
			lo = cur[0]
		}
		if len(g.NodesAt(hi)) == 0 {
			hi = cur[len(cur)-1]
		}
	}
	for _, n := range g.NodesAt(lo) {
		connect(out, n, out.AddSidedNode(p.Sub(lo, eps), reeb.SideRight))
	}
	for _, n := range g.NodesAt(hi) {
		connect(out, n, out.AddSidedNode(p.Add(hi, eps), reeb.SideLeft))
	}
	return out
}
