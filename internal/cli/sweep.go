package cli

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reebsmooth/pkg/errors"
	"github.com/matzehuels/reebsmooth/pkg/pipeline"
)

// sweepCommand creates the sweep command.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		steps     int
		precision int
		noCache   bool
		refresh   bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "sweep <graph>",
		Short: "Smooth at evenly spaced ε and tabulate the results",
		Long: `Sweep smooths a graph at --steps values of ε from 0 to half its value
range and prints, for each, the node and edge counts and the remaining
critical values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.SweepOptions{
				Steps:     c.Config.Sweep.Steps,
				Precision: c.precision(cmd, precision),
				Refresh:   refresh,
			}
			if cmd.Flags().Changed("steps") {
				opts.Steps = steps
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			p, err := errors.ValidatePrecision(opts.Precision)
			if err != nil {
				return err
			}
			g, err := pipeline.LoadFile(args[0], p)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Sweeping "+strconv.Itoa(opts.Steps)+" values of ε")
			spin.Start()
			res, err := runner.Sweep(cmd.Context(), g, opts)
			spin.Stop()
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printSweep(cmd, res)
			return nil
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", pipeline.DefaultSweepSteps, "number of ε values")
	cmd.Flags().IntVarP(&precision, "precision", "p", pipeline.DefaultPrecision, "decimal places of function values")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func printSweep(cmd *cobra.Command, res *pipeline.SweepResult) {
	rows := make([][]string, len(res.Panels))
	for i, p := range res.Panels {
		levels := make([]string, len(p.Levels))
		for j, v := range p.Levels {
			levels[j] = v.String()
		}
		rows[i] = []string{
			strconv.Itoa(p.Index),
			p.Epsilon.String(),
			strconv.Itoa(p.Nodes),
			strconv.Itoa(p.Edges),
			strconv.Itoa(p.Passes),
			strings.Join(levels, " "),
		}
	}
	printTable(cmd.OutOrStdout(), []string{"#", "ε", "nodes", "edges", "passes", "levels"}, rows)
	status := iconFresh
	if res.CacheHit {
		status = iconCached
	}
	printDetail(cmd.ErrOrStderr(), "%d panels in %s · %s", len(res.Panels), res.Duration.Round(time.Millisecond), status)
}
