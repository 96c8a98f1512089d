// Package layout computes drawing hints for Reeb graphs.
//
// Function values run along the horizontal axis. Nodes sharing a level are
// stacked vertically around zero, spaced in proportion to the distance to the
// neighbouring level they belong with; parallel edges fan out as cubic
// curves. The result is plain data for renderers, which may ignore it.
package layout

import (
	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
	"github.com/matzehuels/reebsmooth/pkg/reeb/smooth"
)

const (
	// SlotFactor scales the level spacing into the vertical distance between
	// nodes at the same level.
	SlotFactor = 0.2

	// CurveFactor scales the width of an interval into the vertical spread of
	// its parallel edges.
	CurveFactor = 0.3
)

// Position places one node.
type Position struct {
	Value level.Value // horizontal coordinate, the node's function value
	X     float64
	Y     float64
}

// Point is a 2D coordinate.
type Point struct{ X, Y float64 }

// Curve is a cubic Bézier drawn for one edge, from the lower endpoint U to
// the upper endpoint V.
type Curve struct {
	Edge   reeb.EdgeID
	U, V   reeb.NodeID
	Points [4]Point
}

// Positions assigns every node a vertical slot at its level. The spacing at a
// level c is taken from:
//
//   - the gap to the next level when c is the lowest level
//   - the gap to the previous level when the level's first node is marked left
//   - the gap to the next level when it is marked right
//   - the smaller of the two neighbouring gaps otherwise
//
// A graph with a single level uses a spacing of 1.
func Positions(g *reeb.Graph) map[reeb.NodeID]Position {
	crit := smooth.CriticalValues(g)
	out := make(map[reeb.NodeID]Position, g.NodeCount())
	for i, c := range crit {
		nodes := g.NodesAt(c)
		dist := spacing(g, crit, i, nodes[0])
		ys := VerticalSlots(len(nodes), SlotFactor*dist, 0)
		for j, id := range nodes {
			out[id] = Position{Value: c, X: c.Float64(), Y: ys[j]}
		}
	}
	return out
}

func spacing(g *reeb.Graph, crit []level.Value, i int, first reeb.NodeID) float64 {
	prev, next := -1.0, -1.0
	if i > 0 {
		prev = crit[i].Float64() - crit[i-1].Float64()
	}
	if i+1 < len(crit) {
		next = crit[i+1].Float64() - crit[i].Float64()
	}

	n, _ := g.Node(first)
	var d float64
	switch {
	case i == 0:
		d = next
	case n.Side == reeb.SideLeft:
		d = prev
	case n.Side == reeb.SideRight:
		d = next
	case next > 0 && next < prev:
		d = next
	default:
		d = prev
	}
	if d <= 0 {
		d = max(prev, next)
	}
	if d <= 0 {
		d = 1
	}
	return d
}

// VerticalSlots returns n positions step apart, centred on base.
func VerticalSlots(n int, step, base float64) []float64 {
	if n <= 0 {
		return nil
	}
	start := base - float64(n/2)*step
	if n%2 == 0 {
		start += step / 2
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// Curves returns one curve per edge. Parallel edges between the same pair of
// nodes get control points spread apart vertically so they do not overlap.
func Curves(g *reeb.Graph, pos map[reeb.NodeID]Position) []Curve {
	type pair struct{ lo, hi reeb.NodeID }
	groups := make(map[pair][]reeb.EdgeID)
	var order []pair
	for _, e := range g.Edges() {
		lo, hi := e.U, e.V
		if pos[hi].X < pos[lo].X {
			lo, hi = hi, lo
		}
		k := pair{lo, hi}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e.ID)
	}

	var out []Curve
	for _, k := range order {
		l, r := pos[k.lo], pos[k.hi]
		dx, dy := r.X-l.X, r.Y-l.Y
		ids := groups[k]
		left := VerticalSlots(len(ids), CurveFactor*dx, l.Y+dy/5)
		right := VerticalSlots(len(ids), CurveFactor*dx, r.Y-dy/5)
		for i, id := range ids {
			out = append(out, Curve{
				Edge: id,
				U:    k.lo,
				V:    k.hi,
				Points: [4]Point{
					{l.X, l.Y},
					{l.X + dx/5, left[i]},
					{r.X - dx/5, right[i]},
					{r.X, r.Y},
				},
			})
		}
	}
	return out
}
