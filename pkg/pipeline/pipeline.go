// Package pipeline runs smoothing jobs for the CLI and the HTTP server.
//
// A [Runner] combines graph decoding, the smoothing driver, result caching,
// rendering and observability hooks so that both entry points behave the
// same way. Errors leaving this package carry a code from pkg/errors.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	g, err := pipeline.LoadFile("graph.json", level.DefaultPrecision)
//	res, err := runner.Smooth(ctx, g, pipeline.Options{Epsilon: "0.5"})
//	svg, _, err := runner.Render(ctx, res.Graph, pipeline.RenderOptions{Format: "svg"})
//
// Sweeps smooth the same graph at evenly spaced ε:
//
//	sweep, err := runner.Sweep(ctx, g, pipeline.SweepOptions{Steps: 12})
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reebsmooth/pkg/cache"
	"github.com/matzehuels/reebsmooth/pkg/errors"
	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
	"github.com/matzehuels/reebsmooth/pkg/reeb/smooth"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPrecision is the number of decimal places used for values.
	DefaultPrecision = int(level.DefaultPlaces)

	// DefaultEpsilon is the smoothing amount when none is given.
	DefaultEpsilon = "0"

	// DefaultSweepSteps is the number of panels in an ε sweep.
	DefaultSweepSteps = 12

	// MaxSweepSteps bounds the panels of a single sweep.
	MaxSweepSteps = 64
)

// Output format names accepted by [Runner.Render].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTxt  = "txt"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats lists the output formats in help order.
var ValidFormats = []string{FormatJSON, FormatYAML, FormatTxt, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// =============================================================================
// Options - Smoothing Configuration
// =============================================================================

// Options configures a smoothing run. It is decoded directly from API
// request bodies.
type Options struct {
	Epsilon   string `json:"epsilon"`
	Precision int    `json:"precision,omitempty"`
	MaxPasses int    `json:"max_passes,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"` // bypass cache reads

	Logger *log.Logger `json:"-"`

	eps  level.Value
	prec level.Precision
}

// Validate checks the options and applies defaults. It is idempotent.
func (o *Options) Validate() error {
	if o.Epsilon == "" {
		o.Epsilon = DefaultEpsilon
	}
	if o.Precision == 0 {
		o.Precision = DefaultPrecision
	}
	p, err := errors.ValidatePrecision(o.Precision)
	if err != nil {
		return err
	}
	eps, err := errors.ValidateEpsilon(o.Epsilon, p)
	if err != nil {
		return err
	}
	if o.MaxPasses < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_passes must not be negative")
	}
	o.prec, o.eps = p, eps
	return nil
}

// Value returns the validated ε. Call [Options.Validate] first.
func (o *Options) Value() level.Value { return o.eps }

// Prec returns the validated precision. Call [Options.Validate] first.
func (o *Options) Prec() level.Precision { return o.prec }

func (o *Options) keyOpts() cache.SmoothKeyOpts {
	return cache.SmoothKeyOpts{
		Epsilon:   o.eps.String(),
		Precision: o.prec.Places(),
		MaxPasses: o.MaxPasses,
	}
}

// SweepOptions configures an ε sweep.
type SweepOptions struct {
	Steps     int  `json:"steps,omitempty"`
	Precision int  `json:"precision,omitempty"`
	Refresh   bool `json:"refresh,omitempty"`

	prec level.Precision
}

// Validate checks the options and applies defaults.
func (o *SweepOptions) Validate() error {
	if o.Steps == 0 {
		o.Steps = DefaultSweepSteps
	}
	if o.Precision == 0 {
		o.Precision = DefaultPrecision
	}
	if err := errors.ValidateSweepSteps(o.Steps, MaxSweepSteps); err != nil {
		return err
	}
	p, err := errors.ValidatePrecision(o.Precision)
	if err != nil {
		return err
	}
	o.prec = p
	return nil
}

// RenderOptions configures output encoding.
type RenderOptions struct {
	Format     string  `json:"format"`
	Labels     bool    `json:"labels,omitempty"`     // dot/svg/png/pdf: show values
	Pinned     bool    `json:"pinned,omitempty"`     // dot/svg/png/pdf: use layout positions
	Layout     bool    `json:"layout,omitempty"`     // json: include layout hints
	Resolution float64 `json:"resolution,omitempty"` // png: pixel density factor
}

// Validate checks the format and applies defaults.
func (o *RenderOptions) Validate() error {
	if o.Format == "" {
		o.Format = FormatJSON
	}
	f, err := errors.ValidateFormat(o.Format, ValidFormats)
	if err != nil {
		return err
	}
	o.Format = f
	if o.Resolution <= 0 {
		o.Resolution = 2
	}
	return nil
}

// IsGraphviz reports whether the format is produced by Graphviz.
func (o *RenderOptions) IsGraphviz() bool {
	switch o.Format {
	case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
		return true
	}
	return false
}

func (o *RenderOptions) keyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format: o.Format,
		Labels: o.Labels,
		Pinned: o.Pinned || o.Layout,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of [Runner.Smooth].
type Result struct {
	RunID     string
	GraphHash string // content hash of the input graph
	Epsilon   level.Value
	Graph     *reeb.Graph
	Stats     smooth.Stats
	Passes    []smooth.Pass // empty on a cache hit
	Duration  time.Duration
	CacheHit  bool
}

// Levels describes the critical values of a graph.
type Levels struct {
	Values       []level.Value
	Gaps         []level.Value
	Weight       level.Value // smallest positive edge weight
	CritEpsilon  level.Value // half of Weight
	HasEdges     bool
	Nodes, Edges int
	Range        level.Value // max - min
}

// Panel is one ε of a sweep.
type Panel struct {
	Index   int           `json:"index"`
	Epsilon level.Value   `json:"epsilon"`
	Nodes   int           `json:"nodes"`
	Edges   int           `json:"edges"`
	Passes  int           `json:"passes"`
	Levels  []level.Value `json:"levels"`
}

// SweepResult is the outcome of [Runner.Sweep].
type SweepResult struct {
	RunID     string        `json:"run_id"`
	GraphHash string        `json:"graph_hash"`
	Panels    []Panel       `json:"panels"`
	Duration  time.Duration `json:"-"`
	CacheHit  bool          `json:"cache_hit"`
}
