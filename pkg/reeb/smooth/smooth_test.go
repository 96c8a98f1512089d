package smooth

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

var p = level.DefaultPrecision

func v(s string) level.Value { return p.MustParse(s) }

func build(t *testing.T, values []string, edges [][2]int) *reeb.Graph {
	t.Helper()
	vs := make([]level.Value, len(values))
	for i, s := range values {
		vs[i] = v(s)
	}
	g, err := reeb.FromValues(vs, edges)
	require.NoError(t, err)
	return g
}

// twoBubbles is 0 = 1 = 3: two parallel-edge loops stacked on each other.
func twoBubbles(t *testing.T) *reeb.Graph {
	return build(t, []string{"0", "1", "3"}, [][2]int{{0, 1}, {0, 1}, {1, 2}, {1, 2}})
}

func critStrings(g *reeb.Graph) []string {
	var out []string
	for _, c := range CriticalValues(g) {
		out = append(out, c.String())
	}
	return out
}

// describe renders g as sorted text so structurally equal graphs compare
// equal regardless of decimal internals.
func describe(g *reeb.Graph) string {
	var b strings.Builder
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "n%d=%s%s;", n.ID, n.Value, n.Side)
	}
	var edges []string
	for _, e := range g.Edges() {
		u, w := min(e.U, e.V), max(e.U, e.V)
		edges = append(edges, fmt.Sprintf("%d-%d:%s", u, w, e.Weight))
	}
	slices.Sort(edges)
	b.WriteString(strings.Join(edges, ";"))
	return b.String()
}

func TestCriticalValues(t *testing.T) {
	g := build(t, []string{"3", "1", "1", "0"}, [][2]int{{0, 1}, {2, 3}})
	require.Equal(t, []string{"0", "1", "3"}, critStrings(g))
	require.Empty(t, CriticalValues(reeb.New()))

	gaps := Gaps(CriticalValues(g), p)
	require.Len(t, gaps, 2)
	require.True(t, gaps[0].Equal(v("1")))
	require.True(t, gaps[1].Equal(v("2")))
	require.Nil(t, Gaps(nil, p))
}

func TestLabelEdges(t *testing.T) {
	g := build(t, []string{"0", "1.5", "-2"}, [][2]int{{0, 1}, {2, 0}})
	require.Error(t, g.CheckWeights())

	out := LabelEdges(g)
	require.NoError(t, out.CheckWeights())
	require.Error(t, g.CheckWeights(), "input must not be relabelled")

	w, ok := SmallestWeight(out)
	require.True(t, ok)
	require.Equal(t, "1.5", w.String())

	_, ok = SmallestWeight(LabelEdges(build(t, []string{"0"}, nil)))
	require.False(t, ok)
}

func TestNormalize(t *testing.T) {
	// a(0) jumps over the levels 1 and 2 held by an unrelated edge.
	g := build(t, []string{"0", "3", "1", "2"}, [][2]int{{0, 1}, {2, 3}})
	require.False(t, IsNormalized(g))

	out := Normalize(g)
	require.True(t, IsNormalized(out))
	require.True(t, out.IsCompact())
	require.Equal(t, 6, out.NodeCount())
	require.Equal(t, 4, out.EdgeCount())
	require.Equal(t, critStrings(g), critStrings(out))
	require.NoError(t, out.Validate())

	again := Normalize(out)
	require.Equal(t, describe(out), describe(again))
	require.Equal(t, 4, g.NodeCount(), "input must not change")
}

func TestShrinkIntervalsMerge(t *testing.T) {
	g := build(t, []string{"0", "0.2"}, [][2]int{{0, 1}})
	out := ShrinkIntervals(g, v("0.1"), CriticalValues(g), p)

	mid := out.NodesAt(v("0.1"))
	require.Len(t, mid, 1)
	require.Equal(t, 2, out.Degree(mid[0]))
	require.Equal(t, 0, out.Multiplicity(0, 1))
	require.Equal(t, 3, out.NodeCount())
	require.Equal(t, 2, out.EdgeCount())
}

func TestShrinkIntervalsMergeSingletons(t *testing.T) {
	// Two separate edges over the same interval: two components, two
	// midpoints. The isolated node at 0 is its own component.
	g := build(t, []string{"0", "1", "0", "1", "0"}, [][2]int{{0, 1}, {2, 3}})
	out := ShrinkIntervals(g, v("0.5"), CriticalValues(g), p)

	require.Len(t, out.NodesAt(v("0.5")), 3)
	require.Equal(t, 1, out.Degree(4))
	require.NoError(t, out.Validate())
}

func TestShrinkIntervalsSplit(t *testing.T) {
	g := build(t, []string{"0", "1"}, [][2]int{{0, 1}, {0, 1}})
	out := ShrinkIntervals(g, v("0.1"), CriticalValues(g), p)

	require.Equal(t, 4, out.NodeCount())
	require.Equal(t, 4, out.EdgeCount())
	require.Equal(t, 0, out.Multiplicity(0, 1))

	lo := out.NodesAt(v("0.1"))
	hi := out.NodesAt(v("0.9"))
	require.Len(t, lo, 1)
	require.Len(t, hi, 1)
	require.Equal(t, 2, out.Multiplicity(lo[0], hi[0]))

	n, _ := out.Node(lo[0])
	require.Equal(t, reeb.SideRight, n.Side)
	n, _ = out.Node(hi[0])
	require.Equal(t, reeb.SideLeft, n.Side)
}

func TestShrinkIntervalsSkipsEmptyNarrowInterval(t *testing.T) {
	// Levels 0 and 0.1 are not connected; no node appears between them.
	g := build(t, []string{"0", "0.1", "5"}, [][2]int{{1, 2}})
	out := ShrinkIntervals(g, v("0.5"), CriticalValues(g), p)
	require.Empty(t, out.NodesAt(v("0.05")))
	require.NoError(t, out.Validate())
}

func TestShrinkIntervalsContractsAtPrecisionLimit(t *testing.T) {
	whole := level.MustPrecision(0)
	g, err := reeb.FromValues([]level.Value{whole.Int(0), whole.Int(1), whole.Int(3)}, [][2]int{{0, 1}, {1, 2}})
	require.NoError(t, err)

	out := ShrinkIntervals(g, whole.Int(1), CriticalValues(g), whole)
	require.NoError(t, out.Validate())
	require.Equal(t, []string{"1", "2", "3"}, critStrings(out))
	// 0 and 1 became one node at 1, attached to the midpoint at 2.
	require.Len(t, out.NodesAt(whole.Int(1)), 1)
	require.Equal(t, 1, out.Degree(out.NodesAt(whole.Int(1))[0]))
}

func TestExtendBoundaries(t *testing.T) {
	g := build(t, []string{"0", "1", "0"}, [][2]int{{0, 1}, {2, 1}})
	out := ExtendBoundaries(g, v("0.25"), CriticalValues(g), p)

	require.Len(t, out.NodesAt(v("-0.25")), 2)
	require.Len(t, out.NodesAt(v("1.25")), 1)
	for _, id := range out.NodesAt(v("-0.25")) {
		n, _ := out.Node(id)
		require.Equal(t, reeb.SideRight, n.Side)
	}

	single := build(t, []string{"2"}, nil)
	out = ExtendBoundaries(single, v("1"), CriticalValues(single), p)
	require.Equal(t, []string{"1", "2", "3"}, critStrings(out))
	require.Equal(t, 2, out.Degree(0))
}

func TestPrune(t *testing.T) {
	// 0 - 1 - 2 = 3 - 1.5: node 1 is regular, node 2 touches a double edge,
	// node 3 is a local maximum.
	g := build(t, []string{"0", "1", "2", "3", "1.5"}, [][2]int{{0, 1}, {1, 2}, {2, 3}, {2, 3}, {3, 4}})
	require.True(t, IsRedundant(g, 1))
	require.False(t, IsRedundant(g, 2))
	require.False(t, IsRedundant(g, 3))
	require.False(t, IsRedundant(g, 0))

	out := Prune(g)
	require.Equal(t, 4, out.NodeCount())
	require.Equal(t, 4, out.EdgeCount())
	require.True(t, out.IsCompact())
	for _, id := range out.NodeIDs() {
		require.False(t, IsRedundant(out, id), "node %d", id)
	}
}

func TestPruneChain(t *testing.T) {
	g := build(t, []string{"0", "1", "2", "3", "4"}, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}})
	out := Prune(g)
	require.Equal(t, []string{"0", "4"}, critStrings(out))
	require.Equal(t, 1, out.EdgeCount())
}

// requireOnlySubdivisionRedundant checks that every pass-through node left in
// a smoothed graph sits on a level that some branching or extremal node also
// occupies, i.e. it exists only to keep the graph normalized.
func requireOnlySubdivisionRedundant(t *testing.T, g *reeb.Graph) {
	t.Helper()
	needed := make(map[string]bool)
	for _, n := range g.Nodes() {
		if !IsRedundant(g, n.ID) {
			needed[n.Value.String()] = true
		}
	}
	for _, n := range g.Nodes() {
		if IsRedundant(g, n.ID) {
			require.True(t, needed[n.Value.String()], "redundant node %d at %s", n.ID, n.Value)
		}
	}
}

func TestSmoothTwoBubbles(t *testing.T) {
	g := twoBubbles(t)
	out := Smooth(g, v("0.1"))

	require.Equal(t, []string{"-0.1", "0.1", "0.9", "1.1", "2.9", "3.1"}, critStrings(out))
	require.Equal(t, 6, out.NodeCount())
	require.Equal(t, 7, out.EdgeCount())
	require.NoError(t, out.CheckWeights())
}

func TestSmoothNodeCounts(t *testing.T) {
	tests := []struct {
		eps   string
		nodes int
		crit  []string
	}{
		{"0", 3, []string{"0", "1", "3"}},
		{"0.1", 6, nil},
		{"0.25", 6, []string{"-0.25", "0.25", "0.75", "1.25", "2.75", "3.25"}},
		{"0.5", 4, []string{"-0.5", "1.5", "2.5", "3.5"}},
		{"0.75", 4, []string{"-0.75", "1.75", "2.25", "3.75"}},
		{"1", 2, []string{"-1", "4"}},
		{"1.5", 2, []string{"-1.5", "4.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.eps, func(t *testing.T) {
			out := Smooth(twoBubbles(t), v(tt.eps))
			require.Equal(t, tt.nodes, out.NodeCount())
			if tt.crit != nil {
				require.Equal(t, tt.crit, critStrings(out))
			}
		})
	}
}

func TestSmoothProperties(t *testing.T) {
	graphs := map[string]func(*testing.T) *reeb.Graph{
		"two bubbles": twoBubbles,
		"bubble on a path": func(t *testing.T) *reeb.Graph {
			return build(t, []string{"0", "2", "3", "6"}, [][2]int{{0, 1}, {1, 2}, {1, 2}, {2, 3}})
		},
		"y shape": func(t *testing.T) *reeb.Graph {
			return build(t, []string{"0", "2", "3", "5"}, [][2]int{{0, 1}, {1, 2}, {1, 3}})
		},
		"skipping edge": func(t *testing.T) *reeb.Graph {
			return build(t, []string{"0", "4", "1", "2"}, [][2]int{{0, 1}, {0, 2}, {2, 3}, {3, 1}})
		},
	}
	for name, mk := range graphs {
		for _, eps := range []string{"0.1", "0.3", "0.5", "1", "2.5"} {
			t.Run(name+"/"+eps, func(t *testing.T) {
				g := mk(t)
				before := describe(g)
				out := Smooth(g, v(eps))

				require.Equal(t, before, describe(g), "input mutated")
				require.NoError(t, out.Validate())
				require.NoError(t, out.CheckWeights())
				require.True(t, IsNormalized(out))
				require.True(t, out.IsCompact())
				requireOnlySubdivisionRedundant(t, out)

				in, res := CriticalValues(g), CriticalValues(out)
				require.Equal(t, p.Sub(in[0], v(eps)).String(), res[0].String())
				require.Equal(t, p.Add(in[len(in)-1], v(eps)).String(), res[len(res)-1].String())

				again := Smooth(out, level.Zero)
				require.Equal(t, describe(out), describe(again))
			})
		}
	}
}

func TestSmoothMonotone(t *testing.T) {
	prev := -1
	for _, eps := range []string{"1.5", "1", "0.75", "0.5", "0.25", "0.1", "0.01"} {
		n := Smooth(twoBubbles(t), v(eps)).NodeCount()
		if prev >= 0 {
			require.GreaterOrEqual(t, n, prev, "eps %s", eps)
		}
		prev = n
	}
}

func TestSmoothBubbleDisappears(t *testing.T) {
	g := build(t, []string{"0", "2", "3", "6"}, [][2]int{{0, 1}, {1, 2}, {1, 2}, {2, 3}})
	out := Smooth(g, v("0.5"))
	require.Equal(t, []string{"-0.5", "6.5"}, critStrings(out))
	require.Equal(t, 1, out.EdgeCount())
}

func TestSmoothZeroAndNegative(t *testing.T) {
	g := build(t, []string{"0", "3", "1", "2"}, [][2]int{{0, 1}, {2, 3}})
	want := describe(LabelEdges(Normalize(g)))
	for _, eps := range []string{"0", "-1", "0.0000001"} {
		require.Equal(t, want, describe(Smooth(g, v(eps))), "eps %s", eps)
	}
}

func TestSmoothEdgeless(t *testing.T) {
	require.Equal(t, 0, Smooth(reeb.New(), v("1")).NodeCount())

	g := build(t, []string{"1", "2"}, nil)
	out := Smooth(g, v("1"))
	require.Equal(t, 2, out.NodeCount())
	require.Equal(t, 0, out.EdgeCount())
}

func TestSmootherStats(t *testing.T) {
	var passes []Pass
	s := New(p, WithPassHook(func(ps Pass) { passes = append(passes, ps) }))
	out, stats := s.Smooth(twoBubbles(t), v("1"))

	require.Equal(t, 2, stats.Passes)
	require.Len(t, passes, 2)
	require.Equal(t, "1", stats.Absorbed.String())
	require.False(t, stats.Truncated)
	require.Equal(t, 3, stats.NodesIn)
	require.Equal(t, 4, stats.EdgesIn)
	require.Equal(t, out.NodeCount(), stats.NodesOut)
	require.Equal(t, 1, stats.EdgesOut)

	require.Equal(t, "0.5", passes[0].Epsilon.String())
	require.Equal(t, "0.5", passes[0].Remaining.String())
	require.Equal(t, 4, passes[0].Nodes)
	require.True(t, passes[1].Remaining.IsZero())
	require.False(t, passes[1].Final)
}

func TestSmootherFinalPass(t *testing.T) {
	var last Pass
	s := New(p, WithPassHook(func(ps Pass) { last = ps }))
	_, stats := s.Smooth(twoBubbles(t), v("0.75"))
	require.Equal(t, 2, stats.Passes)
	require.True(t, last.Final)
	require.Equal(t, "0.25", last.Epsilon.String())
}

func TestSmootherMaxPasses(t *testing.T) {
	s := New(p, WithMaxPasses(1))
	out, stats := s.Smooth(twoBubbles(t), v("1"))
	require.True(t, stats.Truncated)
	require.Equal(t, 1, stats.Passes)
	require.Equal(t, 4, out.NodeCount())
	require.Equal(t, "0.5", stats.Absorbed.String())
}

func TestSmootherRoundsEpsilon(t *testing.T) {
	coarse := level.MustPrecision(1)
	g, err := reeb.FromValues([]level.Value{coarse.Int(0), coarse.Int(1)}, [][2]int{{0, 1}, {0, 1}})
	require.NoError(t, err)

	out, stats := New(coarse).Smooth(g, p.MustParse("0.14"))
	require.Equal(t, "0.1", stats.Absorbed.String())
	require.Equal(t, []string{"-0.1", "0.1", "0.9", "1.1"}, critStrings(out))
}

func TestSmoothContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, stats, err := New(p).SmoothContext(ctx, twoBubbles(t), v("1"))
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, stats.Passes)
	require.Equal(t, 3, out.NodeCount())
	require.Equal(t, 4, out.EdgeCount())
}
