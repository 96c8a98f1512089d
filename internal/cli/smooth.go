package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reebsmooth/pkg/errors"
	"github.com/matzehuels/reebsmooth/pkg/pipeline"
)

// watchDebounce coalesces the burst of events an editor emits on save.
const watchDebounce = 150 * time.Millisecond

// smoothOpts holds the flags of the smooth command.
type smoothOpts struct {
	epsilon   string
	precision int
	output    string
	format    string
	watch     bool
	noCache   bool
	refresh   bool
	labels    bool
	pinned    bool
	layout    bool
}

// smoothCommand creates the smooth command.
func (c *CLI) smoothCommand() *cobra.Command {
	var opts smoothOpts

	cmd := &cobra.Command{
		Use:   "smooth <graph>",
		Short: "Smooth a Reeb graph at a given ε",
		Long: `Smooth reads a Reeb graph (json, yaml or txt; "-" reads JSON from stdin)
and writes its ε-smoothing. The output format follows --format, else the
extension of --output, else json.`,
		Example: `  reebsmooth smooth graph.json --epsilon 0.5
  reebsmooth smooth graph.txt -e 1 -o smoothed.svg --labels
  reebsmooth smooth graph.yaml -e 0.25 -o out.json --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run := func(ctx context.Context) error {
				return c.runSmooth(ctx, cmd, args[0], opts)
			}
			if !opts.watch {
				return run(cmd.Context())
			}
			if args[0] == "-" {
				return errors.New(errors.ErrCodeInvalidInput, "--watch needs a file, not stdin")
			}
			if err := run(cmd.Context()); err != nil {
				c.Logger.Error("Smoothing failed", "err", errors.UserMessage(err))
			}
			return c.watch(cmd.Context(), args[0], run)
		},
	}

	cmd.Flags().StringVarP(&opts.epsilon, "epsilon", "e", pipeline.DefaultEpsilon, "smoothing amount ε")
	cmd.Flags().IntVarP(&opts.precision, "precision", "p", pipeline.DefaultPrecision, "decimal places of function values")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join(pipeline.ValidFormats, ", "))
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-run whenever the input file changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label nodes with their values (graphviz formats)")
	cmd.Flags().BoolVar(&opts.pinned, "pinned", false, "place nodes at layout positions (graphviz formats)")
	cmd.Flags().BoolVar(&opts.layout, "layout", false, "include layout hints (json)")

	return cmd
}

// runSmooth loads, smooths and writes one graph.
func (c *CLI) runSmooth(ctx context.Context, cmd *cobra.Command, path string, opts smoothOpts) error {
	prog := newProgress(c.Logger)
	status := cmd.ErrOrStderr()

	popts := c.smoothOptions(cmd, opts.epsilon, opts.precision)
	popts.Refresh = opts.refresh
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

	res, err := runner.Smooth(ctx, g, popts)
	if err != nil {
		return err
	}
	if res.Stats.Truncated {
		printWarning(status, "stopped after %d passes with ε left over; raise max_passes", res.Stats.Passes)
	}

	ropts := pipeline.RenderOptions{
		Format: outputFormat(opts.format, opts.output, pipeline.FormatJSON),
		Labels: opts.labels,
		Pinned: opts.pinned,
		Layout: opts.layout,
	}
	data, _, err := runner.Render(ctx, res.Graph, ropts)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), opts.output, data); err != nil {
		return err
	}

	prog.done("Smoothed "+path, "epsilon", res.Epsilon, "run", res.RunID)
	printStats(status, res.Stats.NodesOut, res.Stats.EdgesOut, res.Stats.Passes, res.CacheHit)
	if opts.output != "" {
		printFile(status, opts.output)
	}
	return nil
}

// watch calls run after every change to path until ctx ends. Failed runs are
// logged and the watch continues.
func (c *CLI) watch(ctx context.Context, path string, run func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "watcher")
	}
	defer w.Close()

	// Watch the directory: editors often replace the file on save.
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "watch %s", path)
	}
	c.Logger.Info("Watching for changes", "path", path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				pending = time.After(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("Watcher error", "err", err)
		case <-pending:
			pending = nil
			if err := run(ctx); err != nil {
				c.Logger.Error("Smoothing failed", "err", errors.UserMessage(err))
			}
		}
	}
}

// outputFormat picks the explicit format, else the output file extension,
// else def.
func outputFormat(format, output, def string) string {
	if format != "" {
		return format
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		switch ext = strings.ToLower(ext); ext {
		case "yml":
			return pipeline.FormatYAML
		case "gv":
			return pipeline.FormatDOT
		default:
			return ext
		}
	}
	return def
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
	}
	return nil
}
