package smooth

import (
	"fmt"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// LabelEdges returns a copy of g in which every edge weight equals the
// absolute value gap of its endpoints.
//
// LabelEdges panics if an edge references a node that does not exist; that
// can only happen through a bug in a rewrite, never through valid input.
func LabelEdges(g *reeb.Graph) *reeb.Graph {
	out := g.Clone()
	for _, e := range out.Edges() {
		out.SetWeight(e.ID, gap(out, e.U, e.V))
	}
	return out
}

// SmallestWeight returns the smallest positive edge weight of a labelled
// graph. It reports false when the graph has no such edge.
func SmallestWeight(g *reeb.Graph) (level.Value, bool) {
	var (
		best  level.Value
		found bool
	)
	for _, e := range g.Edges() {
		if e.Weight.Sign() <= 0 {
			continue
		}
		if !found || e.Weight.Less(best) {
			best, found = e.Weight, true
		}
	}
	return best, found
}

func gap(g *reeb.Graph, u, v reeb.NodeID) level.Value {
	fu := mustValue(g, u)
	fv := mustValue(g, v)
	return level.FromDecimal(fu.Decimal().Sub(fv.Decimal()).Abs())
}

func mustValue(g *reeb.Graph, id reeb.NodeID) level.Value {
	v, ok := g.Value(id)
	if !ok {
		panic(fmt.Sprintf("smooth: node %d has no function value", id))
	}
	return v
}

// connect adds an edge that the rewrite guarantees to be valid.
func connect(g *reeb.Graph, u, v reeb.NodeID) {
	if _, err := g.AddEdge(u, v); err != nil {
		panic(err)
	}
}
