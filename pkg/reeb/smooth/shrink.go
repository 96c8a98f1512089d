package smooth

import (
	"maps"
	"slices"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// ShrinkIntervals narrows every interval between adjacent critical values by
// eps at both ends, or collapses it when it is exactly 2·eps wide.
//
// For each adjacent pair (l, r) of crit with gap = r - l:
//
//   - gap > 2·eps: every node at l gets a copy at l+eps and every node at r a
//     copy at r-eps, each original joined to its copy. Edges that ran
//     directly between an l node and an r node are moved onto the copies.
//   - gap = 2·eps: every connected component of the interval (nodes at l and
//     r, linked by the edges between them) is replaced by one node at the
//     midpoint joined to each member; the edges between them are dropped.
//   - gap < 2·eps: only reachable through rounding at the precision limit, or
//     for an interval no edge spans. The interval collapses as above when it
//     contains edges and is left alone otherwise.
//
// When the rounded midpoint lands on l or r (a one-unit gap) the component is
// contracted into the new node instead of being attached to it, so no edge
// ever joins two equal values.
//
// Copies at l+eps are marked [reeb.SideRight], copies at r-eps
// [reeb.SideLeft]. Graphs with fewer than two critical values, and a
// non-positive eps, are returned unchanged. The result keeps the input's
// handles; it is not compacted.
func ShrinkIntervals(g *reeb.Graph, eps level.Value, crit []level.Value, p level.Precision) *reeb.Graph {
	out := g.Clone()
	if len(crit) < 2 || eps.Sign() <= 0 {
		return out
	}

	twoEps := p.Add(eps, eps)
	byLevel := nodesByLevel(g, crit)
	spanning := spanningEdges(g, crit)

	var pending []contraction
	for i := 0; i+1 < len(crit); i++ {
		l, r := crit[i], crit[i+1]
		switch c := p.Sub(r, l).Cmp(twoEps); {
		case c > 0:
			shrinkInterval(out, byLevel[i], byLevel[i+1], spanning[i], p.Add(l, eps), p.Sub(r, eps))
		case c == 0 || len(spanning[i]) > 0:
			pending = append(pending, collapseInterval(out, byLevel[i], byLevel[i+1], spanning[i], l, r, p)...)
		}
	}
	applyContractions(out, pending)
	return out
}

// spanningEdges buckets the edges of g by the interval they span. Edges that
// do not join adjacent critical values belong to no interval.
func spanningEdges(g *reeb.Graph, crit []level.Value) [][]reeb.Edge {
	out := make([][]reeb.Edge, max(len(crit)-1, 0))
	for _, e := range g.Edges() {
		i := levelIndex(crit, mustValue(g, e.U))
		j := levelIndex(crit, mustValue(g, e.V))
		if i < 0 || j < 0 {
			continue
		}
		if j == i+1 {
			out[i] = append(out[i], e)
		} else if i == j+1 {
			out[j] = append(out[j], e)
		}
	}
	return out
}

func shrinkInterval(g *reeb.Graph, left, right []reeb.NodeID, spanning []reeb.Edge, lo, hi level.Value) {
	dup := make(map[reeb.NodeID]reeb.NodeID, len(left)+len(right))
	for _, n := range left {
		d := g.AddSidedNode(lo, reeb.SideRight)
		dup[n] = d
		connect(g, n, d)
	}
	for _, n := range right {
		d := g.AddSidedNode(hi, reeb.SideLeft)
		dup[n] = d
		connect(g, n, d)
	}
	for _, e := range spanning {
		g.RemoveEdge(e.ID)
		connect(g, dup[e.U], dup[e.V])
	}
}

// contraction is a component scheduled to be merged into one node at a
// value that coincides with one of its own levels.
type contraction struct {
	nodes []reeb.NodeID
	at    level.Value
}

// collapseInterval removes the spanning edges of an interval and joins every
// component to a fresh midpoint node. Components that cannot get a midpoint of
// their own are returned for contraction once all intervals are done, since
// other intervals still refer to their nodes.
func collapseInterval(g *reeb.Graph, left, right []reeb.NodeID, spanning []reeb.Edge, l, r level.Value, p level.Precision) []contraction {
	mid := p.Mid(l, r)
	contract := mid.Equal(l) || mid.Equal(r)

	for _, e := range spanning {
		g.RemoveEdge(e.ID)
	}
	var pending []contraction
	for _, comp := range components(slices.Concat(left, right), spanning) {
		if contract {
			if len(comp) > 1 {
				pending = append(pending, contraction{nodes: comp, at: mid})
			}
			continue
		}
		m := g.AddNode(mid)
		for _, n := range comp {
			connect(g, n, m)
		}
	}
	return pending
}

// applyContractions replaces the nodes of each contraction by a single node
// that inherits all of their remaining edges. A node already absorbed by an
// earlier contraction is represented by its replacement.
func applyContractions(g *reeb.Graph, pending []contraction) {
	replaced := make(map[reeb.NodeID]reeb.NodeID)
	resolve := func(n reeb.NodeID) reeb.NodeID {
		for {
			next, ok := replaced[n]
			if !ok {
				return n
			}
			n = next
		}
	}

	for _, c := range pending {
		members := make(map[reeb.NodeID]bool, len(c.nodes))
		for _, n := range c.nodes {
			members[resolve(n)] = true
		}
		if len(members) < 2 {
			continue
		}
		m := g.AddNode(c.at)
		for _, n := range slices.Sorted(maps.Keys(members)) {
			for _, eid := range g.IncidentEdges(n) {
				e, _ := g.Edge(eid)
				o := e.Other(n)
				if members[o] || mustValue(g, o).Equal(c.at) {
					continue
				}
				connect(g, o, m)
			}
			g.RemoveNode(n)
			replaced[n] = m
		}
	}
}

// components returns the connected components of nodes under edges, each
// sorted, ordered by their smallest member.
func components(nodes []reeb.NodeID, edges []reeb.Edge) [][]reeb.NodeID {
	parent := make(map[reeb.NodeID]reeb.NodeID, len(nodes))
	for _, n := range nodes {
		parent[n] = n
	}
	var find func(reeb.NodeID) reeb.NodeID
	find = func(n reeb.NodeID) reeb.NodeID {
		for parent[n] != n {
			parent[n] = parent[parent[n]]
			n = parent[n]
		}
		return n
	}
	for _, e := range edges {
		a, b := find(e.U), find(e.V)
		if a != b {
			parent[max(a, b)] = min(a, b)
		}
	}

	groups := make(map[reeb.NodeID][]reeb.NodeID)
	for _, n := range nodes {
		root := find(n)
		groups[root] = append(groups[root], n)
	}
	out := make([][]reeb.NodeID, 0, len(groups))
	for _, comp := range groups {
		slices.Sort(comp)
		out = append(out, comp)
	}
	slices.SortFunc(out, func(a, b []reeb.NodeID) int { return int(a[0] - b[0]) })
	return out
}
