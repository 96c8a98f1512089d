package cli

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reebsmooth/pkg/errors"
	"github.com/matzehuels/reebsmooth/pkg/level"
	"github.com/matzehuels/reebsmooth/pkg/pipeline"
)

// levelsJSON is the --json output of the levels command.
type levelsJSON struct {
	Values         []level.Value `json:"values"`
	Gaps           []level.Value `json:"gaps"`
	Range          level.Value   `json:"range"`
	SmallestWeight *level.Value  `json:"smallest_weight,omitempty"`
	CritEpsilon    *level.Value  `json:"crit_epsilon,omitempty"`
	Nodes          int           `json:"nodes"`
	Edges          int           `json:"edges"`
}

// levelsCommand creates the levels command.
func (c *CLI) levelsCommand() *cobra.Command {
	var (
		precision int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "levels <graph>",
		Short: "List critical values, gaps and the critical ε",
		Long: `Levels prints the distinct function values of a graph's nodes, the gap
between consecutive values and the critical ε: half the smallest edge
weight, the largest ε for which a single smoothing pass suffices.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := errors.ValidatePrecision(c.precision(cmd, precision))
			if err != nil {
				return err
			}
			g, err := pipeline.LoadFile(args[0], p)
			if err != nil {
				return err
			}
			lv := pipeline.NewRunner(nil, nil, c.Logger).Levels(g, p)
			if asJSON {
				return printLevelsJSON(cmd, lv)
			}
			printLevels(cmd, lv)
			return nil
		},
	}

	cmd.Flags().IntVarP(&precision, "precision", "p", pipeline.DefaultPrecision, "decimal places of function values")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func printLevels(cmd *cobra.Command, lv pipeline.Levels) {
	w := cmd.OutOrStdout()
	printKeyValue(w, "nodes", strconv.Itoa(lv.Nodes))
	printKeyValue(w, "edges", strconv.Itoa(lv.Edges))
	printKeyValue(w, "range", lv.Range.String())
	if lv.HasEdges {
		printKeyValue(w, "min weight", lv.Weight.String())
		printKeyValue(w, "critical ε", lv.CritEpsilon.String())
	} else {
		printKeyValue(w, "critical ε", "none (no edges)")
	}

	rows := make([][]string, len(lv.Values))
	for i, v := range lv.Values {
		gap := ""
		if i < len(lv.Gaps) {
			gap = lv.Gaps[i].String()
		}
		rows[i] = []string{strconv.Itoa(i), v.String(), gap}
	}
	if len(rows) > 0 {
		printTable(w, []string{"#", "value", "gap"}, rows)
	}
}

func printLevelsJSON(cmd *cobra.Command, lv pipeline.Levels) error {
	out := levelsJSON{
		Values: lv.Values,
		Gaps:   lv.Gaps,
		Range:  lv.Range,
		Nodes:  lv.Nodes,
		Edges:  lv.Edges,
	}
	if lv.HasEdges {
		out.SmallestWeight, out.CritEpsilon = &lv.Weight, &lv.CritEpsilon
	}
	if out.Gaps == nil {
		out.Gaps = []level.Value{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
