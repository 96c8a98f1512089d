// Package render turns drawn Reeb graphs into files.
//
// The [dot] subpackage lays a graph out with Graphviz, one rank per critical
// value, and produces SVG. [SVGToPNG] and [SVGToPDF] convert that SVG with
// the external [Rasterizer] tool:
//
//	svg, err := dot.RenderSVG(ctx, dot.ToDOT(g, opts), opts)
//	png, err := render.SVGToPNG(ctx, svg, 2)
//
// Both return an error wrapping [ErrNoRasterizer] when the tool is missing.
//
// [dot]: github.com/matzehuels/reebsmooth/pkg/render/dot
package render
