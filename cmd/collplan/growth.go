package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/collgo/growth"
)

// minStart is the smallest capacity each policy accepts.
var minStart = map[string]int{
	"natural":  2,
	"double":   1,
	"relaxed":  4,
	"balanced": 2,
	"default":  2,
}

type growthFlags struct {
	policy    string
	threshold int
	from      int
	to        int
}

func newGrowthCmd(g *globalFlags) *cobra.Command {
	f := &growthFlags{}
	cmd := &cobra.Command{
		Use:   "growth",
		Short: "Print the capacity sequence of a growth policy",
		Long: `The growth command prints the capacities a container passes through when it
grows one element at a time.

Example:
  collplan growth --policy balanced --from 4 --to 4096
  collplan growth --policy relaxed --to 1000 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGrowth(cmd, g, f)
		},
	}
	cmd.Flags().StringVar(&f.policy, "policy", "default", "Growth policy: natural, double, relaxed, balanced, default")
	cmd.Flags().IntVar(&f.threshold, "threshold", growth.DefaultThreshold, "Threshold of the balanced policy")
	cmd.Flags().IntVar(&f.from, "from", 4, "Starting capacity")
	cmd.Flags().IntVar(&f.to, "to", 4096, "Capacity to reach")
	return cmd
}

func runGrowth(cmd *cobra.Command, g *globalFlags, f *growthFlags) error {
	if f.from < 1 || f.to < f.from {
		return fmt.Errorf("invalid range [%d, %d]", f.from, f.to)
	}

	policy, ok := growth.ByName(f.policy)
	if !ok {
		return fmt.Errorf("unknown growth policy %q", f.policy)
	}
	if f.policy == "balanced" {
		policy = growth.Balanced(f.threshold)
	}
	if floor := minStart[f.policy]; f.from < floor {
		return fmt.Errorf("policy %s needs --from >= %d", f.policy, floor)
	}

	seq := growth.Sequence(policy, f.from, f.to)
	if g.json {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"policy":     f.policy,
			"capacities": seq,
		})
	}
	for _, c := range seq {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}
