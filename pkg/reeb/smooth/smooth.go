package smooth

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// DefaultMaxPasses bounds the number of passes a single [Smoother.Smooth]
// call may run. Every pass consumes at least one precision unit of the
// budget, so the bound is only reached for very large ε relative to the
// precision.
const DefaultMaxPasses = 10000

// Pass describes one completed smoothing pass.
type Pass struct {
	Index     int         // 0-based
	Epsilon   level.Value // amount consumed by this pass
	Remaining level.Value // budget left afterwards
	Levels    int         // critical values after the pass
	Nodes     int
	Edges     int
	Final     bool // partial pass that spent the rest of the budget
}

// Stats summarises a [Smoother.Smooth] call.
type Stats struct {
	Passes    int
	NodesIn   int
	EdgesIn   int
	NodesOut  int
	EdgesOut  int
	Absorbed  level.Value // total ε consumed
	Truncated bool        // stopped by the pass limit with budget left
}

// Option configures a [Smoother].
type Option func(*Smoother)

// WithLogger sets the logger used for per-pass debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Smoother) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPassHook registers a function called after every pass.
func WithPassHook(fn func(Pass)) Option { return func(s *Smoother) { s.onPass = fn } }

// WithMaxPasses overrides [DefaultMaxPasses]. Values below 1 are ignored.
func WithMaxPasses(n int) Option {
	return func(s *Smoother) {
		if n > 0 {
			s.maxPasses = n
		}
	}
}

// Smoother runs the smoothing driver at a fixed precision. A Smoother holds
// no per-call state and may be shared between goroutines as long as the pass
// hook is safe for concurrent use.
type Smoother struct {
	prec      level.Precision
	logger    *log.Logger
	onPass    func(Pass)
	maxPasses int
}

// New returns a Smoother that rounds all arithmetic to p.
func New(p level.Precision, opts ...Option) *Smoother {
	s := &Smoother{
		prec:      p,
		logger:    log.New(io.Discard),
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Precision returns the rounding context of s.
func (s *Smoother) Precision() level.Precision { return s.prec }

// Smooth returns the ε-smoothing of g. The input is not modified.
//
// eps is rounded to the Smoother's precision first. A non-positive eps, or a
// graph without edges, yields the normalized and labelled input. Otherwise
// the driver repeats passes of
//
//	crt := half the smallest edge weight
//	ShrinkIntervals, ExtendBoundaries, Prune by min(crt, remaining)
//	Normalize, LabelEdges
//
// until the budget is spent. The output is normalized, labelled and compact.
// Pass-through nodes survive only where normalization needs them, on a level
// some other node already occupies. A non-positive eps skips pruning.
func (s *Smoother) Smooth(g *reeb.Graph, eps level.Value) (*reeb.Graph, Stats) {
	out, stats, _ := s.SmoothContext(context.Background(), g, eps)
	return out, stats
}

// SmoothContext is [Smoother.Smooth] with cancellation. ctx is checked
// before every pass; when it is done the graph after the last completed pass
// is returned together with ctx.Err().
func (s *Smoother) SmoothContext(ctx context.Context, g *reeb.Graph, eps level.Value) (*reeb.Graph, Stats, error) {
	p := s.prec
	eps = p.Round(eps)
	stats := Stats{NodesIn: g.NodeCount(), EdgesIn: g.EdgeCount()}

	cur := LabelEdges(Normalize(g))
	remaining := eps
	var err error
	for remaining.Sign() > 0 {
		if err = ctx.Err(); err != nil {
			break
		}
		if stats.Passes >= s.maxPasses {
			stats.Truncated = true
			s.logger.Warn("smoothing stopped at pass limit",
				"passes", stats.Passes,
				"epsilon", eps,
				"remaining", remaining)
			break
		}
		w, ok := SmallestWeight(cur)
		if !ok {
			break
		}

		step, final := p.Half(w), false
		if remaining.Less(step) {
			step, final = remaining, true
		}
		crit := CriticalValues(cur)
		next := ShrinkIntervals(cur, step, crit, p)
		next = ExtendBoundaries(next, step, crit, p)
		next = Prune(next)
		cur = LabelEdges(Normalize(next))

		remaining = p.Sub(remaining, step)
		stats.Absorbed = p.Add(stats.Absorbed, step)
		pass := Pass{
			Index:     stats.Passes,
			Epsilon:   step,
			Remaining: remaining,
			Levels:    len(CriticalValues(cur)),
			Nodes:     cur.NodeCount(),
			Edges:     cur.EdgeCount(),
			Final:     final,
		}
		stats.Passes++
		s.logger.Debug("smoothing pass",
			"pass", pass.Index,
			"epsilon", step,
			"remaining", remaining,
			"levels", pass.Levels,
			"nodes", pass.Nodes,
			"edges", pass.Edges)
		if s.onPass != nil {
			s.onPass(pass)
		}
		if final {
			break
		}
	}

	stats.NodesOut = cur.NodeCount()
	stats.EdgesOut = cur.EdgeCount()
	return cur, stats, err
}

// Smooth is shorthand for smoothing at [level.DefaultPrecision] with default
// options.
func Smooth(g *reeb.Graph, eps level.Value) *reeb.Graph {
	out, _ := New(level.DefaultPrecision).Smooth(g, eps)
	return out
}
