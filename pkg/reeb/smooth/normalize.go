package smooth

import (
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// Normalize subdivides edges so that every edge joins two adjacent critical
// values.
//
// For each edge (u, v) with critical values strictly between f(u) and f(v),
// the edge is replaced by a path from the lower endpoint to the upper one
// through one new node per intervening value:
//
//	Before: u (0) ── v (3)             critical values {0, 1, 2, 3}
//	After:  u (0) ── s (1) ── t (2) ── v (3)
//
// The result is compact (handles 0..n-1). New edges are unlabelled; run
// [LabelEdges] afterwards when weights are needed. Applying Normalize to an
// already normalized graph changes nothing but the handle numbering, which is
// already dense when the input came from a previous rewrite.
func Normalize(g *reeb.Graph) *reeb.Graph {
	out := g.Clone()
	crit := CriticalValues(out)
	for _, e := range out.Edges() {
		fu, fv := mustValue(out, e.U), mustValue(out, e.V)
		between := strictlyBetween(crit, fu, fv)
		if len(between) == 0 {
			continue
		}

		lo, hi := e.U, e.V
		if fv.Less(fu) {
			lo, hi = hi, lo
		}
		out.RemoveEdge(e.ID)
		prev := lo
		for _, c := range between {
			n := out.AddNode(c)
			connect(out, prev, n)
			prev = n
		}
		connect(out, prev, hi)
	}
	return out.Compact()
}

// IsNormalized reports whether no edge of g jumps over a critical value.
func IsNormalized(g *reeb.Graph) bool {
	crit := CriticalValues(g)
	for _, e := range g.Edges() {
		if len(strictlyBetween(crit, mustValue(g, e.U), mustValue(g, e.V))) > 0 {
			return false
		}
	}
	return true
}
