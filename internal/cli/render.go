package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reebsmooth/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	epsilon    string
	precision  int
	output     string
	format     string
	labels     bool
	pinned     bool
	resolution float64
	noCache    bool
}

// renderCommand creates the render command. Without --epsilon the graph is
// drawn as read; with it, the smoothed graph is drawn.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph>",
		Short: "Draw a Reeb graph with Graphviz",
		Long: `Render draws a graph as dot, svg, png or pdf, one rank per function value.
Pass --epsilon to draw the smoothed graph instead. png and pdf need
rsvg-convert on PATH.`,
		Example: `  reebsmooth render graph.json -o graph.svg
  reebsmooth render graph.txt -e 0.5 --labels --pinned -o smoothed.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.epsilon, "epsilon", "e", "", "smooth at ε before drawing")
	cmd.Flags().IntVarP(&opts.precision, "precision", "p", pipeline.DefaultPrecision, "decimal places of function values")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join([]string{pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF}, ", "))
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label nodes with their values")
	cmd.Flags().BoolVar(&opts.pinned, "pinned", false, "place nodes at layout positions")
	cmd.Flags().Float64Var(&opts.resolution, "resolution", 2, "pixel density factor (png)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	popts := c.smoothOptions(cmd, opts.epsilon, opts.precision)
	if err := popts.Validate(); err != nil {
		return err
	}
	g, err := pipeline.LoadFile(path, popts.Prec())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	out := g
	if cmd.Flags().Changed("epsilon") {
		res, err := runner.Smooth(ctx, g, popts)
		if err != nil {
			return err
		}
		out = res.Graph
	}

	ropts := pipeline.RenderOptions{
		Format:     outputFormat(opts.format, opts.output, pipeline.FormatSVG),
		Labels:     opts.labels,
		Pinned:     opts.pinned,
		Resolution: opts.resolution,
	}
	data, cached, err := runner.Render(ctx, out, ropts)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), opts.output, data); err != nil {
		return err
	}

	prog.done("Rendered "+path, "format", ropts.Format, "bytes", len(data))
	status := cmd.ErrOrStderr()
	printStats(status, out.NodeCount(), out.EdgeCount(), 0, cached)
	if opts.output != "" {
		printFile(status, opts.output)
	}
	return nil
}
