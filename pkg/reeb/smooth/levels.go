package smooth

import (
	"slices"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// CriticalValues returns the distinct node values of g in increasing order.
// An empty graph yields an empty slice.
func CriticalValues(g *reeb.Graph) []level.Value {
	nodes := g.Nodes()
	vals := make([]level.Value, len(nodes))
	for i, n := range nodes {
		vals[i] = n.Value
	}
	slices.SortFunc(vals, level.Compare)
	return slices.CompactFunc(vals, level.Value.Equal)
}

// Gaps returns the widths of the intervals between consecutive critical
// values.
func Gaps(crit []level.Value, p level.Precision) []level.Value {
	if len(crit) < 2 {
		return nil
	}
	out := make([]level.Value, len(crit)-1)
	for i := range out {
		out[i] = p.Sub(crit[i+1], crit[i])
	}
	return out
}

// levelIndex returns the position of v in crit, or -1.
func levelIndex(crit []level.Value, v level.Value) int {
	i, ok := slices.BinarySearchFunc(crit, v, level.Compare)
	if !ok {
		return -1
	}
	return i
}

// strictlyBetween returns the critical values strictly between a and b, in
// increasing order regardless of the argument order.
func strictlyBetween(crit []level.Value, a, b level.Value) []level.Value {
	lo, hi := level.Min(a, b), level.Max(a, b)
	start, found := slices.BinarySearchFunc(crit, lo, level.Compare)
	if found {
		start++
	}
	end, _ := slices.BinarySearchFunc(crit, hi, level.Compare)
	if start >= end {
		return nil
	}
	return crit[start:end]
}

// nodesByLevel groups the nodes of g by their index in crit. Nodes whose value
// is not in crit are ignored.
func nodesByLevel(g *reeb.Graph, crit []level.Value) [][]reeb.NodeID {
	out := make([][]reeb.NodeID, len(crit))
	for _, n := range g.Nodes() {
		if i := levelIndex(crit, n.Value); i >= 0 {
			out[i] = append(out[i], n.ID)
		}
	}
	return out
}
