package reeb

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/reebsmooth/pkg/level"
)

var (
	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint does not
	// exist, and by [Graph.Validate] when an edge references a missing node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node.
	ErrSelfLoop = errors.New("self-loop")

	// ErrFlatEdge is returned by [Graph.AddEdge] when both endpoints carry the
	// same function value. Reeb edges connect distinct levels.
	ErrFlatEdge = errors.New("edge endpoints share a function value")

	// ErrStaleWeight is returned by [Graph.CheckWeights] when an edge weight
	// differs from the value gap of its endpoints.
	ErrStaleWeight = errors.New("edge weight does not match endpoint values")

	// ErrCorruptIndex is returned by [Graph.Validate] when the incidence index
	// disagrees with the edge set.
	ErrCorruptIndex = errors.New("incidence index out of sync")
)

// NodeID is an opaque node handle.
type NodeID int

// EdgeID is an opaque edge handle. Parallel edges have distinct EdgeIDs.
type EdgeID int

// Side records which end of a collapsed interval a node came from.
type Side int8

const (
	// SideNone marks original and subdivision nodes.
	SideNone Side = iota
	// SideLeft marks nodes whose relevant spacing is toward the lower level.
	SideLeft
	// SideRight marks nodes whose relevant spacing is toward the higher level.
	SideRight
)

// String returns "left", "right" or "".
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return ""
	}
}

// ParseSide is the inverse of [Side.String]. It also accepts the single
// letters "l" and "r".
func ParseSide(s string) (Side, error) {
	switch s {
	case "":
		return SideNone, nil
	case "left", "l":
		return SideLeft, nil
	case "right", "r":
		return SideRight, nil
	}
	return SideNone, fmt.Errorf("unknown side %q", s)
}

// Node is a vertex of the Reeb graph.
type Node struct {
	ID    NodeID
	Value level.Value // function value, f_val
	Side  Side        // layout hint, SideNone unless set by smoothing
}

// Edge connects two nodes. U and V are unordered.
type Edge struct {
	ID     EdgeID
	U, V   NodeID
	Weight level.Value // |f(U) - f(V)| once labelled
}

// Other returns the endpoint of e that is not n.
func (e Edge) Other(n NodeID) NodeID {
	if e.U == n {
		return e.V
	}
	return e.U
}

// Graph is an undirected multigraph with function values on its nodes.
//
// The zero value is not usable; call [New].
type Graph struct {
	nodes    map[NodeID]Node
	edges    map[EdgeID]Edge
	incident map[NodeID][]EdgeID
	nextNode NodeID
	nextEdge EdgeID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[NodeID]Node),
		edges:    make(map[EdgeID]Edge),
		incident: make(map[NodeID][]EdgeID),
	}
}

// FromValues builds a graph whose node i carries values[i] and which has one
// edge per pair in edges. Pairs index into values. Duplicate pairs produce
// parallel edges.
func FromValues(values []level.Value, edges [][2]int) (*Graph, error) {
	g := New()
	ids := make([]NodeID, len(values))
	for i, v := range values {
		ids[i] = g.AddNode(v)
	}
	for _, e := range edges {
		if e[0] < 0 || e[0] >= len(ids) {
			return nil, fmt.Errorf("edge (%d, %d): %w %d", e[0], e[1], ErrUnknownNode, e[0])
		}
		if e[1] < 0 || e[1] >= len(ids) {
			return nil, fmt.Errorf("edge (%d, %d): %w %d", e[0], e[1], ErrUnknownNode, e[1])
		}
		if _, err := g.AddEdge(ids[e[0]], ids[e[1]]); err != nil {
			return nil, fmt.Errorf("edge (%d, %d): %w", e[0], e[1], err)
		}
	}
	return g, nil
}

// AddNode adds a node with value v and returns its handle.
func (g *Graph) AddNode(v level.Value) NodeID {
	return g.AddSidedNode(v, SideNone)
}

// AddSidedNode adds a node with value v and a side marker.
func (g *Graph) AddSidedNode(v level.Value, side Side) NodeID {
	id := g.nextNode
	g.nextNode++
	g.nodes[id] = Node{ID: id, Value: v, Side: side}
	return id
}

// AddEdge adds an edge between u and v and returns its handle. The weight is
// left at zero until relabelled.
//
// Returns ErrUnknownNode if either endpoint is missing, ErrSelfLoop if u == v,
// or ErrFlatEdge if both endpoints carry the same value.
func (g *Graph) AddEdge(u, v NodeID) (EdgeID, error) {
	nu, ok := g.nodes[u]
	if !ok {
		return 0, fmt.Errorf("%w %d", ErrUnknownNode, u)
	}
	nv, ok := g.nodes[v]
	if !ok {
		return 0, fmt.Errorf("%w %d", ErrUnknownNode, v)
	}
	if u == v {
		return 0, fmt.Errorf("%w on node %d", ErrSelfLoop, u)
	}
	if nu.Value.Equal(nv.Value) {
		return 0, fmt.Errorf("%w: %d and %d at %s", ErrFlatEdge, u, v, nu.Value)
	}
	id := g.nextEdge
	g.nextEdge++
	g.edges[id] = Edge{ID: id, U: u, V: v}
	g.incident[u] = append(g.incident[u], id)
	g.incident[v] = append(g.incident[v], id)
	return id, nil
}

// RemoveEdge removes the edge with the given handle. It reports whether the
// edge existed.
func (g *Graph) RemoveEdge(id EdgeID) bool {
	e, ok := g.edges[id]
	if !ok {
		return false
	}
	delete(g.edges, id)
	g.detach(e.U, id)
	g.detach(e.V, id)
	return true
}

func (g *Graph) detach(n NodeID, id EdgeID) {
	g.incident[n] = slices.DeleteFunc(g.incident[n], func(x EdgeID) bool { return x == id })
	if len(g.incident[n]) == 0 {
		delete(g.incident, n)
	}
}

// RemoveNode removes a node together with all its incident edges. It reports
// whether the node existed.
func (g *Graph) RemoveNode(id NodeID) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	for _, e := range slices.Clone(g.incident[id]) {
		g.RemoveEdge(e)
	}
	delete(g.nodes, id)
	return true
}

// SetWeight overwrites the stored weight of an edge.
func (g *Graph) SetWeight(id EdgeID, w level.Value) {
	if e, ok := g.edges[id]; ok {
		e.Weight = w
		g.edges[id] = e
	}
}

// SetSide overwrites the side marker of a node.
func (g *Graph) SetSide(id NodeID, side Side) {
	if n, ok := g.nodes[id]; ok {
		n.Side = side
		g.nodes[id] = n
	}
}

// Node returns the node with the given handle.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Value returns the function value of a node.
func (g *Graph) Value(id NodeID) (level.Value, bool) {
	n, ok := g.nodes[id]
	return n.Value, ok
}

// Edge returns the edge with the given handle.
func (g *Graph) Edge(id EdgeID) (Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// NodeIDs returns all node handles in ascending order.
func (g *Graph) NodeIDs() []NodeID {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Nodes returns all nodes ordered by handle.
func (g *Graph) Nodes() []Node {
	ids := g.NodeIDs()
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns all edges ordered by handle.
func (g *Graph) Edges() []Edge {
	ids := slices.Sorted(maps.Keys(g.edges))
	out := make([]Edge, len(ids))
	for i, id := range ids {
		out[i] = g.edges[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, counting parallel edges separately.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Degree returns the number of edges incident to a node, counting parallel
// edges separately.
func (g *Graph) Degree(id NodeID) int { return len(g.incident[id]) }

// IncidentEdges returns the handles of the edges touching a node, in
// insertion order.
func (g *Graph) IncidentEdges(id NodeID) []EdgeID { return slices.Clone(g.incident[id]) }

// Neighbors returns the opposite endpoint of every incident edge, so a
// neighbour joined by k parallel edges appears k times.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	out := make([]NodeID, 0, len(g.incident[id]))
	for _, eid := range g.incident[id] {
		out = append(out, g.edges[eid].Other(id))
	}
	return out
}

// DistinctNeighbors returns the sorted set of adjacent nodes.
func (g *Graph) DistinctNeighbors(id NodeID) []NodeID {
	out := g.Neighbors(id)
	slices.Sort(out)
	return slices.Compact(out)
}

// Multiplicity returns the number of parallel edges between u and v.
func (g *Graph) Multiplicity(u, v NodeID) int {
	n := 0
	for _, eid := range g.incident[u] {
		if g.edges[eid].Other(u) == v {
			n++
		}
	}
	return n
}

// NodesAt returns the handles of all nodes whose value equals v, ascending.
func (g *Graph) NodesAt(v level.Value) []NodeID {
	var out []NodeID
	for _, id := range g.NodeIDs() {
		if g.nodes[id].Value.Equal(v) {
			out = append(out, id)
		}
	}
	return out
}

// Clone returns a deep copy that preserves every handle and the allocator
// state, so handles taken from g stay valid on the copy.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:    maps.Clone(g.nodes),
		edges:    maps.Clone(g.edges),
		incident: make(map[NodeID][]EdgeID, len(g.incident)),
		nextNode: g.nextNode,
		nextEdge: g.nextEdge,
	}
	for id, es := range g.incident {
		c.incident[id] = slices.Clone(es)
	}
	return c
}

// Compact returns a copy renumbered so that node handles are 0..n-1 and edge
// handles 0..m-1, both in the order of the original handles. Values, sides
// and weights are preserved.
func (g *Graph) Compact() *Graph {
	c := New()
	remap := make(map[NodeID]NodeID, len(g.nodes))
	for _, n := range g.Nodes() {
		remap[n.ID] = c.AddSidedNode(n.Value, n.Side)
	}
	for _, e := range g.Edges() {
		id := c.nextEdge
		c.nextEdge++
		u, v := remap[e.U], remap[e.V]
		c.edges[id] = Edge{ID: id, U: u, V: v, Weight: e.Weight}
		c.incident[u] = append(c.incident[u], id)
		c.incident[v] = append(c.incident[v], id)
	}
	return c
}

// IsCompact reports whether node handles form the dense range 0..n-1.
func (g *Graph) IsCompact() bool {
	for i := range len(g.nodes) {
		if _, ok := g.nodes[NodeID(i)]; !ok {
			return false
		}
	}
	return true
}

// Validate checks structural integrity:
//
//  1. Every edge references existing nodes
//  2. No edge is a self-loop or joins two nodes of equal value
//  3. The incidence index matches the edge set
//
// Weights are not checked; see [Graph.CheckWeights].
func (g *Graph) Validate() error {
	degree := make(map[NodeID]int, len(g.nodes))
	for _, e := range g.Edges() {
		nu, okU := g.nodes[e.U]
		nv, okV := g.nodes[e.V]
		if !okU || !okV {
			return fmt.Errorf("edge %d: %w", e.ID, ErrUnknownNode)
		}
		if e.U == e.V {
			return fmt.Errorf("edge %d: %w", e.ID, ErrSelfLoop)
		}
		if nu.Value.Equal(nv.Value) {
			return fmt.Errorf("edge %d: %w", e.ID, ErrFlatEdge)
		}
		degree[e.U]++
		degree[e.V]++
	}
	for id, es := range g.incident {
		if len(es) != degree[id] {
			return fmt.Errorf("node %d: %w", id, ErrCorruptIndex)
		}
		for _, eid := range es {
			e, ok := g.edges[eid]
			if !ok || (e.U != id && e.V != id) {
				return fmt.Errorf("node %d edge %d: %w", id, eid, ErrCorruptIndex)
			}
		}
	}
	return nil
}

// CheckWeights verifies that every edge weight equals the absolute value gap
// of its endpoints.
func (g *Graph) CheckWeights() error {
	for _, e := range g.Edges() {
		nu, okU := g.nodes[e.U]
		nv, okV := g.nodes[e.V]
		if !okU || !okV {
			return fmt.Errorf("edge %d: %w", e.ID, ErrUnknownNode)
		}
		want := nu.Value.Decimal().Sub(nv.Value.Decimal()).Abs()
		if !e.Weight.Decimal().Equal(want) {
			return fmt.Errorf("edge %d: %w: have %s, want %s", e.ID, ErrStaleWeight, e.Weight, want)
		}
	}
	return nil
}
