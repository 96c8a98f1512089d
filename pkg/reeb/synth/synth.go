// Package synth generates noisy Reeb graphs for demos and tests.
//
// A height function is sampled along a curve, either a closed loop or an open
// path, and perturbed with OpenSimplex noise. Only the local extrema of the
// sampled sequence are kept: they are the critical points of the function on
// the curve, and the monotone runs between them become edges. A loop yields a
// cycle, a path yields a chain; the noise adds the small wiggles that
// smoothing is meant to remove.
package synth

import (
	"errors"
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
)

// Shape selects the curve the height function is sampled on.
type Shape string

const (
	// Loop samples a circle. The base function is its height, so the
	// noiseless graph is a single bubble.
	Loop Shape = "loop"
	// Path samples a segment. The base function rises linearly.
	Path Shape = "path"
)

const (
	DefaultSamples   = 256
	DefaultAmplitude = 0.15
	DefaultFrequency = 3.0
	DefaultSpan      = 1.0
)

// ErrFlat is returned when the sampled function has fewer than two distinct
// values after rounding.
var ErrFlat = errors.New("sampled function is constant")

// Options configures [Generate]. Zero fields take their defaults.
type Options struct {
	Shape     Shape
	Samples   int
	Seed      int64
	Amplitude float64 // noise amplitude relative to Span
	Frequency float64 // noise cycles along the curve
	Span      float64 // range of the base function
	Precision level.Precision
}

func (o *Options) setDefaults() {
	if o.Shape == "" {
		o.Shape = Loop
	}
	if o.Samples <= 0 {
		o.Samples = DefaultSamples
	}
	if o.Amplitude == 0 {
		o.Amplitude = DefaultAmplitude
	}
	if o.Frequency == 0 {
		o.Frequency = DefaultFrequency
	}
	if o.Span == 0 {
		o.Span = DefaultSpan
	}
	if o.Precision == (level.Precision{}) {
		o.Precision = level.DefaultPrecision
	}
}

// Generate samples a noisy height function and returns its Reeb graph. The
// same options always produce the same graph.
func Generate(opts Options) (*reeb.Graph, error) {
	opts.setDefaults()
	if opts.Shape != Loop && opts.Shape != Path {
		return nil, fmt.Errorf("unknown shape %q", opts.Shape)
	}
	if opts.Samples < 3 {
		return nil, fmt.Errorf("need at least 3 samples, got %d", opts.Samples)
	}

	samples := Sample(opts)
	closed := opts.Shape == Loop
	ext := Extrema(samples, closed)
	if len(ext) < 2 {
		return nil, ErrFlat
	}

	g := reeb.New()
	ids := make([]reeb.NodeID, len(ext))
	for i, v := range ext {
		ids[i] = g.AddNode(v)
	}
	for i := 0; i+1 < len(ids); i++ {
		if _, err := g.AddEdge(ids[i], ids[i+1]); err != nil {
			return nil, err
		}
	}
	if closed {
		if _, err := g.AddEdge(ids[len(ids)-1], ids[0]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Sample evaluates the noisy height function at opts.Samples evenly spaced
// points. Values are rounded to opts.Precision.
func Sample(opts Options) []level.Value {
	opts.setDefaults()
	noise := opensimplex.New(opts.Seed)
	out := make([]level.Value, opts.Samples)
	for i := range out {
		t := float64(i) / float64(opts.Samples)
		var base, nx, ny float64
		switch opts.Shape {
		case Path:
			t = float64(i) / float64(opts.Samples-1)
			base = opts.Span * t
			nx, ny = opts.Frequency*t, 0
		default:
			angle := 2 * math.Pi * t
			base = opts.Span / 2 * math.Sin(angle)
			r := opts.Frequency / (2 * math.Pi)
			nx, ny = r*math.Cos(angle), r*math.Sin(angle)
		}
		out[i] = opts.Precision.Of(base + opts.Span*opts.Amplitude*noise.Eval2(nx, ny))
	}
	return out
}

// Extrema reduces a sampled sequence to its local extrema, in order. Runs of
// equal values count once. For an open sequence the endpoints are always
// kept; for a closed one the sequence wraps around and is rotated to start at
// its global minimum. A constant sequence yields a single value.
func Extrema(vals []level.Value, closed bool) []level.Value {
	var seq []level.Value
	for _, v := range vals {
		if len(seq) == 0 || !seq[len(seq)-1].Equal(v) {
			seq = append(seq, v)
		}
	}
	if closed && len(seq) > 1 && seq[0].Equal(seq[len(seq)-1]) {
		seq = seq[:len(seq)-1]
	}
	if len(seq) < 2 {
		return seq
	}

	if !closed {
		out := []level.Value{seq[0]}
		for i := 1; i+1 < len(seq); i++ {
			if isTurn(seq[i-1], seq[i], seq[i+1]) {
				out = append(out, seq[i])
			}
		}
		return append(out, seq[len(seq)-1])
	}

	lo := 0
	for i, v := range seq {
		if v.Less(seq[lo]) {
			lo = i
		}
	}
	n := len(seq)
	var out []level.Value
	for k := range n {
		i := (lo + k) % n
		if isTurn(seq[(i+n-1)%n], seq[i], seq[(i+1)%n]) {
			out = append(out, seq[i])
		}
	}
	return out
}

// isTurn reports whether b is a strict local extremum between a and c.
func isTurn(a, b, c level.Value) bool {
	return (a.Less(b) && c.Less(b)) || (b.Less(a) && b.Less(c))
}
