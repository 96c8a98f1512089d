package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/reebsmooth/pkg/cache"
	"github.com/matzehuels/reebsmooth/pkg/errors"
	pio "github.com/matzehuels/reebsmooth/pkg/io"
	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/observability"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
	"github.com/matzehuels/reebsmooth/pkg/reeb/smooth"
)

// Runner executes smoothing jobs with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// results. Multiple goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// smoothEntry is the cached form of a smoothing result.
type smoothEntry struct {
	Graph json.RawMessage `json:"graph"`
	Stats smooth.Stats    `json:"stats"`
}

// Smooth returns the ε-smoothing of g, consulting the cache first unless
// opts.Refresh is set. g is not modified.
func (r *Runner) Smooth(ctx context.Context, g *reeb.Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := r.logger(opts.Logger)
	start := time.Now()

	hash := HashGraph(g)
	res := &Result{RunID: uuid.NewString(), GraphHash: hash, Epsilon: opts.Value()}
	key := r.Keyer.SmoothKey(hash, opts.keyOpts())

	if !opts.Refresh {
		if out, stats, ok := r.cachedSmooth(ctx, key, opts.Prec()); ok {
			res.Graph, res.Stats, res.CacheHit = out, stats, true
			res.Duration = time.Since(start)
			logger.Debug("smoothing cache hit", "run", res.RunID, "epsilon", res.Epsilon)
			return res, nil
		}
	}

	eps := res.Epsilon.String()
	hooks := observability.Pipeline()
	hooks.OnSmoothStart(ctx, eps, g.NodeCount())
	s := smooth.New(opts.Prec(),
		smooth.WithLogger(logger),
		smooth.WithMaxPasses(opts.MaxPasses),
		smooth.WithPassHook(func(p smooth.Pass) {
			res.Passes = append(res.Passes, p)
			hooks.OnPass(ctx, eps, p.Index, p.Nodes)
		}))
	out, stats, err := s.SmoothContext(ctx, g, res.Epsilon)
	res.Duration = time.Since(start)
	hooks.OnSmoothComplete(ctx, eps, stats.Passes, res.Duration, err)
	if err != nil {
		return nil, contextError(err, "smoothing")
	}
	res.Graph, res.Stats = out, stats

	r.storeSmooth(ctx, key, out, stats)
	logger.Info("smoothed graph",
		"run", res.RunID,
		"epsilon", res.Epsilon,
		"passes", stats.Passes,
		"nodes", stats.NodesOut,
		"edges", stats.EdgesOut,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) cachedSmooth(ctx context.Context, key string, p level.Precision) (*reeb.Graph, smooth.Stats, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "smooth")
		return nil, smooth.Stats{}, false
	}
	var entry smoothEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		observability.Cache().OnCacheMiss(ctx, "smooth")
		return nil, smooth.Stats{}, false
	}
	g, err := pio.ReadJSON(bytes.NewReader(entry.Graph), p)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "smooth")
		return nil, smooth.Stats{}, false
	}
	observability.Cache().OnCacheHit(ctx, "smooth")
	return smooth.LabelEdges(g), entry.Stats, true
}

func (r *Runner) storeSmooth(ctx context.Context, key string, g *reeb.Graph, stats smooth.Stats) {
	var buf bytes.Buffer
	if err := pio.WriteJSON(g, &buf); err != nil {
		return
	}
	data, err := json.Marshal(smoothEntry{Graph: buf.Bytes(), Stats: stats})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLSmooth)); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "smooth", len(data))
}

// Levels reports the critical values of g, the gaps between them and the
// smallest edge weight of the normalized graph, which is where the first
// smoothing pass takes its ε from. Node and edge counts are those of g.
func (r *Runner) Levels(g *reeb.Graph, p level.Precision) Levels {
	labelled := smooth.LabelEdges(smooth.Normalize(g))
	crit := smooth.CriticalValues(labelled)
	out := Levels{
		Values: crit,
		Gaps:   smooth.Gaps(crit, p),
		Nodes:  g.NodeCount(),
		Edges:  g.EdgeCount(),
	}
	if len(crit) > 1 {
		out.Range = p.Sub(crit[len(crit)-1], crit[0])
	}
	if w, ok := smooth.SmallestWeight(labelled); ok {
		out.HasEdges = true
		out.Weight = w
		out.CritEpsilon = p.Half(w)
	}
	return out
}

// SweepEpsilons returns steps evenly spaced values from 0 to half the value
// range of g.
func SweepEpsilons(g *reeb.Graph, steps int, p level.Precision) []level.Value {
	crit := smooth.CriticalValues(g)
	half := level.Zero
	if len(crit) > 1 {
		half = p.Half(p.Sub(crit[len(crit)-1], crit[0]))
	}
	out := make([]level.Value, steps)
	for i := range out {
		out[i] = p.Scale(half, int64(i), int64(steps-1))
	}
	return out
}

// Sweep smooths g at every ε of [SweepEpsilons]. Panels run concurrently,
// bounded by GOMAXPROCS.
func (r *Runner) Sweep(ctx context.Context, g *reeb.Graph, opts SweepOptions) (*SweepResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	hash := HashGraph(g)
	runID := uuid.NewString()
	key := r.Keyer.SweepKey(hash, cache.SweepKeyOpts{Steps: opts.Steps, Precision: opts.prec.Places()})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached SweepResult
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "sweep")
				cached.RunID, cached.GraphHash, cached.CacheHit = runID, hash, true
				cached.Duration = time.Since(start)
				return &cached, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "sweep")
	}

	hooks := observability.Pipeline()
	hooks.OnSweepStart(ctx, opts.Steps)
	panels, err := r.sweep(ctx, g, SweepEpsilons(g, opts.Steps, opts.prec), opts.prec)
	res := &SweepResult{RunID: runID, GraphHash: hash, Panels: panels, Duration: time.Since(start)}
	hooks.OnSweepComplete(ctx, opts.Steps, res.Duration, err)
	if err != nil {
		return nil, contextError(err, "sweep")
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLSweep)); err == nil {
			observability.Cache().OnCacheSet(ctx, "sweep", len(data))
		}
	}
	r.Logger.Info("swept graph", "run", runID, "steps", opts.Steps, "duration", res.Duration)
	return res, nil
}

func (r *Runner) sweep(ctx context.Context, g *reeb.Graph, eps []level.Value, p level.Precision) ([]Panel, error) {
	panels := make([]Panel, len(eps))
	errs := make([]error, len(eps))
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i, e := range eps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			out, stats, err := smooth.New(p).SmoothContext(ctx, g, e)
			if err != nil {
				errs[i] = err
				return
			}
			panels[i] = Panel{
				Index:   i,
				Epsilon: e,
				Nodes:   out.NodeCount(),
				Edges:   out.EdgeCount(),
				Passes:  stats.Passes,
				Levels:  smooth.CriticalValues(out),
			}
		}()
	}
	wg.Wait()
	return panels, stderrors.Join(errs...)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func (r *Runner) logger(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return r.Logger
}

// contextError classifies a cancelled or timed-out run.
func contextError(err error, what string) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s did not finish", what)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "%s failed", what)
}
