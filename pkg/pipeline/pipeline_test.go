package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/reebsmooth/pkg/cache"
	"github.com/matzehuels/reebsmooth/pkg/errors"
	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/reeb"
	"github.com/matzehuels/reebsmooth/pkg/reeb/smooth"
)

const twoBubblesLiteral = "[0, 1, 3]\n[(0, 1), (0, 1), (1, 2), (1, 2)]\n"

func twoBubbles(t *testing.T) *reeb.Graph {
	t.Helper()
	g, err := Decode(strings.NewReader(twoBubblesLiteral), "txt", level.DefaultPrecision)
	require.NoError(t, err)
	return g
}

func strs(vs []level.Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	r := NewRunner(c, nil, log.New(io.Discard))
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		eps  string
		code errors.Code
	}{
		{"defaults", Options{}, "0", ""},
		{"epsilon", Options{Epsilon: "0.25"}, "0.25", ""},
		{"rounded", Options{Epsilon: "0.125", Precision: 2}, "0.13", ""},
		{"negative", Options{Epsilon: "-1"}, "", errors.ErrCodeInvalidEpsilon},
		{"garbage", Options{Epsilon: "lots"}, "", errors.ErrCodeInvalidEpsilon},
		{"precision", Options{Precision: 40}, "", errors.ErrCodeInvalidPrecision},
		{"passes", Options{MaxPasses: -1}, "", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.code != "" {
				require.Error(t, err)
				require.Equal(t, tt.code, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.eps, tt.opts.Value().String())
		})
	}
}

func TestRenderOptionsValidate(t *testing.T) {
	o := RenderOptions{Format: "SVG"}
	require.NoError(t, o.Validate())
	require.Equal(t, FormatSVG, o.Format)
	require.True(t, o.IsGraphviz())
	require.Equal(t, 2.0, o.Resolution)

	o = RenderOptions{}
	require.NoError(t, o.Validate())
	require.Equal(t, FormatJSON, o.Format)
	require.False(t, o.IsGraphviz())

	o = RenderOptions{Format: "gif"}
	require.True(t, errors.Is(o.Validate(), errors.ErrCodeInvalidFormat))
}

func TestDecode(t *testing.T) {
	g := twoBubbles(t)
	require.Equal(t, 3, g.NodeCount())
	require.Equal(t, 4, g.EdgeCount())

	_, err := Decode(strings.NewReader(twoBubblesLiteral), "xml", level.DefaultPrecision)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = Decode(strings.NewReader("[0, 0]\n[(0, 1)]\n"), "txt", level.DefaultPrecision)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidGraph))

	_, err = Decode(strings.NewReader(`{"nodes": [`), "json", level.DefaultPrecision)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidGraph))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"), level.DefaultPrecision)
	require.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = LoadFile("graph", level.DefaultPrecision)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestLoadExampleGraphs(t *testing.T) {
	// Smoothing by the full value range collapses every loop and keeps the
	// branches, shifted outward with the domain.
	tests := []struct {
		file   string
		nodes  int
		edges  int
		levels []string
	}{
		{"two_bubbles.txt", 2, 1, []string{"-3", "6"}},
		{"torus.yaml", 2, 1, []string{"-4", "8"}},
		{"branch.json", 5, 4, []string{"-5", "7", "7.25", "10"}},
		{"mixed.txt", 8, 7, nil},
	}

	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "graphs", "*"))
	require.NoError(t, err)
	require.Len(t, paths, len(tests))

	r := NewRunner(nil, nil, log.New(io.Discard))
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			g, err := LoadFile(filepath.Join("..", "..", "examples", "graphs", tt.file), level.DefaultPrecision)
			require.NoError(t, err)

			lv := r.Levels(g, level.DefaultPrecision)
			res, err := r.Smooth(context.Background(), g, Options{Epsilon: lv.Range.String()})
			require.NoError(t, err)
			require.NoError(t, res.Graph.Validate())
			require.Equal(t, tt.nodes, res.Graph.NodeCount())
			require.Equal(t, tt.edges, res.Graph.EdgeCount())
			if tt.levels != nil {
				require.Equal(t, tt.levels, strs(smooth.CriticalValues(res.Graph)))
			}
		})
	}
}

func TestRenderWithoutRasterizer(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	r := NewRunner(nil, nil, log.New(io.Discard))
	_, _, err := r.Render(context.Background(), twoBubbles(t), RenderOptions{Format: FormatPNG})
	require.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestHashGraph(t *testing.T) {
	h1 := HashGraph(twoBubbles(t))
	require.Equal(t, h1, HashGraph(twoBubbles(t)))
	require.Len(t, h1, 64)

	// Weights are derived data.
	require.Equal(t, h1, HashGraph(smooth.LabelEdges(twoBubbles(t))))

	other, err := Decode(strings.NewReader("[0, 2]\n[(0, 1)]\n"), "txt", level.DefaultPrecision)
	require.NoError(t, err)
	require.NotEqual(t, h1, HashGraph(other))

	sided := twoBubbles(t)
	sided.SetSide(2, reeb.SideRight)
	require.NotEqual(t, h1, HashGraph(sided))

	// Fewer parallel edges is a different graph.
	single, err := Decode(strings.NewReader("[0, 1, 3]\n[(0, 1), (1, 2), (1, 2)]\n"), "txt", level.DefaultPrecision)
	require.NoError(t, err)
	require.NotEqual(t, h1, HashGraph(single))
}

func TestRunnerSmooth(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	g := twoBubbles(t)

	first, err := r.Smooth(ctx, g, Options{Epsilon: "0.5"})
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.NotEmpty(t, first.RunID)
	require.Equal(t, 4, first.Graph.NodeCount())
	require.Equal(t, []string{"-0.5", "1.5", "2.5", "3.5"}, strs(smooth.CriticalValues(first.Graph)))
	require.Len(t, first.Passes, first.Stats.Passes)
	require.Equal(t, 3, g.NodeCount(), "input must not change")

	second, err := r.Smooth(ctx, g, Options{Epsilon: "0.5"})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.NotEqual(t, first.RunID, second.RunID)
	require.Equal(t, first.GraphHash, second.GraphHash)
	require.Equal(t, first.Stats.Passes, second.Stats.Passes)
	require.Equal(t, first.Stats.NodesOut, second.Stats.NodesOut)
	require.True(t, first.Stats.Absorbed.Equal(second.Stats.Absorbed))
	require.Equal(t, strs(smooth.CriticalValues(first.Graph)), strs(smooth.CriticalValues(second.Graph)))
	require.NoError(t, second.Graph.CheckWeights())

	third, err := r.Smooth(ctx, g, Options{Epsilon: "0.5", Refresh: true})
	require.NoError(t, err)
	require.False(t, third.CacheHit)

	other, err := r.Smooth(ctx, g, Options{Epsilon: "1"})
	require.NoError(t, err)
	require.False(t, other.CacheHit)
	require.Equal(t, 2, other.Graph.NodeCount())
}

func TestRunnerSmoothInvalid(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Smooth(context.Background(), twoBubbles(t), Options{Epsilon: "abc"})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidEpsilon))
}

func TestRunnerSmoothCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, log.New(io.Discard))
	_, err := r.Smooth(ctx, twoBubbles(t), Options{Epsilon: "1"})
	require.True(t, errors.Is(err, errors.ErrCodeTimeout))
}

func TestRunnerLevels(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	lv := r.Levels(twoBubbles(t), level.DefaultPrecision)
	require.Equal(t, []string{"0", "1", "3"}, strs(lv.Values))
	require.Equal(t, []string{"1", "2"}, strs(lv.Gaps))
	require.True(t, lv.HasEdges)
	require.Equal(t, "1", lv.Weight.String())
	require.Equal(t, "0.5", lv.CritEpsilon.String())
	require.Equal(t, "3", lv.Range.String())
	require.Equal(t, 3, lv.Nodes)
	require.Equal(t, 4, lv.Edges)
}

func TestRunnerLevelsUsesNormalizedWeights(t *testing.T) {
	// 0-1 jumps over the levels 1 and 2.5, so its shortest piece after
	// normalization is 2.5..3.
	g, err := Decode(strings.NewReader("[0, 3, 1, 2.5]\n[(0, 1), (2, 3)]\n"), "txt", level.DefaultPrecision)
	require.NoError(t, err)

	r := NewRunner(nil, nil, log.New(io.Discard))
	lv := r.Levels(g, level.DefaultPrecision)
	require.Equal(t, []string{"0", "1", "2.5", "3"}, strs(lv.Values))
	require.Equal(t, "0.5", lv.Weight.String())
	require.Equal(t, "0.25", lv.CritEpsilon.String())
	require.Equal(t, 4, lv.Nodes)
	require.Equal(t, 2, lv.Edges)

	var first level.Value
	s := smooth.New(level.DefaultPrecision, smooth.WithPassHook(func(p smooth.Pass) {
		if p.Index == 0 {
			first = p.Epsilon
		}
	}))
	_, stats := s.Smooth(g, lv.CritEpsilon)
	require.Equal(t, lv.CritEpsilon.String(), first.String())
	require.Equal(t, 1, stats.Passes)
}

func TestSweepEpsilons(t *testing.T) {
	eps := SweepEpsilons(twoBubbles(t), 4, level.DefaultPrecision)
	require.Equal(t, []string{"0", "0.5", "1", "1.5"}, strs(eps))

	single, err := Decode(strings.NewReader("[2]\n[]\n"), "txt", level.DefaultPrecision)
	require.NoError(t, err)
	require.Equal(t, []string{"0", "0", "0"}, strs(SweepEpsilons(single, 3, level.DefaultPrecision)))
}

func TestRunnerSweep(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)

	res, err := r.Sweep(ctx, twoBubbles(t), SweepOptions{Steps: 4})
	require.NoError(t, err)
	require.False(t, res.CacheHit)
	require.Len(t, res.Panels, 4)

	nodes := make([]int, len(res.Panels))
	for i, p := range res.Panels {
		require.Equal(t, i, p.Index)
		nodes[i] = p.Nodes
	}
	require.Equal(t, []int{3, 4, 2, 2}, nodes)
	require.Equal(t, []string{"-0.5", "1.5", "2.5", "3.5"}, strs(res.Panels[1].Levels))

	again, err := r.Sweep(ctx, twoBubbles(t), SweepOptions{Steps: 4})
	require.NoError(t, err)
	require.True(t, again.CacheHit)
	require.Len(t, again.Panels, len(res.Panels))
	for i := range res.Panels {
		require.Equal(t, res.Panels[i].Nodes, again.Panels[i].Nodes)
		require.Equal(t, strs(res.Panels[i].Levels), strs(again.Panels[i].Levels))
		require.True(t, res.Panels[i].Epsilon.Equal(again.Panels[i].Epsilon))
	}

	_, err = r.Sweep(ctx, twoBubbles(t), SweepOptions{Steps: 1})
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRunnerRenderText(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	g := twoBubbles(t)

	tests := []struct {
		opts RenderOptions
		want string
	}{
		{RenderOptions{Format: FormatJSON}, `"nodes"`},
		{RenderOptions{Format: FormatJSON, Layout: true}, `"positions"`},
		{RenderOptions{Format: FormatYAML}, "nodes:"},
		{RenderOptions{Format: FormatTxt}, "[0, 1, 3]"},
		{RenderOptions{Format: FormatDOT}, "graph G"},
	}
	for _, tt := range tests {
		t.Run(tt.opts.Format, func(t *testing.T) {
			data, hit, err := r.Render(ctx, g, tt.opts)
			require.NoError(t, err)
			require.False(t, hit)
			require.Contains(t, string(data), tt.want)
		})
	}
}

func TestRunnerRenderSVGCached(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	ctx := context.Background()
	r := fileRunner(t)
	g := twoBubbles(t)

	svg, hit, err := r.Render(ctx, g, RenderOptions{Format: FormatSVG})
	require.NoError(t, err)
	require.False(t, hit)
	require.Contains(t, string(svg), "<svg")

	again, hit, err := r.Render(ctx, g, RenderOptions{Format: FormatSVG})
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, svg, again)
}
