// Package smooth implements scale-space smoothing of Reeb graphs.
//
// # Overview
//
// Smoothing with tolerance ε collapses every topological feature narrower
// than ε (a bubble, a short spur) while features wider than ε survive with
// the same combinatorial structure. The operator is built from a handful of
// graph rewrites, each exported so it can be tested and composed on its own.
// Every rewrite takes a graph and returns a new one; inputs are never
// modified.
//
// # Critical Values
//
// [CriticalValues] returns the sorted, duplicate-free function values present
// on the graph's nodes. It is recomputed after every rewrite and never cached.
//
// # Normalization
//
// [Normalize] subdivides every edge that jumps over an intermediate critical
// value, so that afterwards every edge joins two adjacent levels:
//
//	Before: a (0) ── b (3)      with some other node at 1
//	After:  a (0) ── s (1) ── b (3)
//
// It is idempotent and is applied both before and after each pass.
//
// # Interval Shrinking
//
// [ShrinkIntervals] walks every pair of adjacent levels (l, r). When the gap
// is wider than 2ε, each node at l gets a copy at l+ε, each node at r a copy
// at r-ε, and the edges spanning the interval move between the copies. When
// the gap equals 2ε the interval collapses: each connected piece of the
// interval becomes a single node at the midpoint.
//
// # Boundary Extension and Pruning
//
// [ExtendBoundaries] pushes the global minimum and maximum outward by ε, and
// [Prune] splices out degree-2 nodes that merely subdivide a monotone path.
//
// # Driver
//
// [Smoother.Smooth] runs the passes. Each full pass consumes crt_ε, half the
// smallest edge weight, which is exactly enough to collapse the narrowest
// surviving feature. The remaining budget is carried in an explicit loop; a
// final partial pass spends whatever is left:
//
//	s := smooth.New(level.DefaultPrecision)
//	out, stats := s.Smooth(g, p.MustParse("0.25"))
//
// # Precision
//
// All arithmetic on function values goes through the [level.Precision] given
// to [New]. Node values and ε are expected to conform to it; the driver
// rounds ε once on entry.
package smooth
