package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/reebsmooth/pkg/reeb"
	"github.com/matzehuels/reebsmooth/pkg/reeb/layout"
	"github.com/matzehuels/reebsmooth/pkg/reeb/smooth"
	"github.com/matzehuels/reebsmooth/pkg/render"
)

// DefaultScale is the pinned-layout distance in inches between two levels
// one unit apart.
const DefaultScale = 2.0

// Options configures diagram generation.
type Options struct {
	// Labels prints each node's function value. When false nodes are drawn
	// as small points.
	Labels bool
	// Pinned fixes node coordinates from the layout hints.
	Pinned bool
	// Scale converts function values to inches when Pinned.
	Scale float64
}

// ToDOT converts g to Graphviz DOT source. The result can be rendered with
// [RenderSVG] or saved for external Graphviz tools.
func ToDOT(g *reeb.Graph, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Labels {
		buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.4, fixedsize=true];\n")
	} else {
		buf.WriteString("  node [shape=point, width=0.08];\n")
	}
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var pos map[reeb.NodeID]layout.Position
	if opts.Pinned {
		pos = layout.Positions(g)
	}
	for _, n := range g.Nodes() {
		attrs := fmtAttrs(n, opts.Labels)
		if opts.Pinned {
			pp := pos[n.ID]
			attrs = append(attrs, fmt.Sprintf("pos=\"%.4f,%.4f!\"", pp.X*scale, pp.Y*scale))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if !opts.Pinned {
		buf.WriteString("\n")
		for _, c := range smooth.CriticalValues(g) {
			ids := g.NodesAt(c)
			names := make([]string, len(ids))
			for i, id := range ids {
				names[i] = fmt.Sprintf("n%d", id)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(names, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		lo, hi := e.U, e.V
		fu, _ := g.Value(lo)
		if fv, _ := g.Value(hi); fv.Less(fu) {
			lo, hi = hi, lo
		}
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", lo, hi)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n reeb.Node, labels bool) []string {
	var attrs []string
	if labels {
		attrs = append(attrs, fmt.Sprintf("label=%q", n.Value.String()))
	}
	attrs = append(attrs, fmt.Sprintf("tooltip=%q", fmtTooltip(n)))
	if n.Side != reeb.SideNone {
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func fmtTooltip(n reeb.Node) string {
	if n.Side == reeb.SideNone {
		return fmt.Sprintf("f=%s", n.Value)
	}
	return fmt.Sprintf("f=%s (%s)", n.Value, n.Side)
}

// RenderSVG renders DOT source to SVG using Graphviz. Pinned diagrams must be
// rendered with the same options so the neato engine honours the positions.
func RenderSVG(ctx context.Context, src string, opts Options) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if opts.Pinned {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(ctx context.Context, src string, opts Options) ([]byte, error) {
	svg, err := RenderSVG(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	return render.SVGToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image.
func RenderPNG(ctx context.Context, src string, opts Options, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	return render.SVGToPNG(ctx, svg, scale)
}
