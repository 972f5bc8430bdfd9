package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/container"
	"github.com/hupe1980/collgo/hashmap"
)

type hashFlags struct {
	keys    int
	initial int
	slack   int
	probe   string
	churn   bool
}

func newHashCmd(g *globalFlags) *cobra.Command {
	f := &hashFlags{}
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the rebuild schedule of a hash map",
		Long: `The hash command inserts consecutive integer keys into a hash map and
prints every rebuild it performs.

Example:
  collplan hash --keys 1000
  collplan hash --keys 500 --probe jump:4 --churn`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHash(cmd, g, f)
		},
	}
	cmd.Flags().IntVar(&f.keys, "keys", 1000, "Number of keys to insert")
	cmd.Flags().IntVar(&f.initial, "initial", container.DefaultHashCapacity, "Initial slot count")
	cmd.Flags().IntVar(&f.slack, "slack", container.DefaultSlackRatio, "Slack ratio R")
	cmd.Flags().StringVar(&f.probe, "probe", "linear", "Probe sequence: linear, quadratic, jump:N")
	cmd.Flags().BoolVar(&f.churn, "churn", false, "Remove every other key after inserting")
	return cmd
}

func parseProbe(s string) (hashmap.Probe, error) {
	switch {
	case s == "linear":
		return hashmap.Linear, nil
	case s == "quadratic":
		return hashmap.Quadratic, nil
	case strings.HasPrefix(s, "jump:"):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "jump:"))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid jump stride in %q", s)
		}
		return hashmap.Jump(n), nil
	default:
		return nil, fmt.Errorf("unknown probe %q", s)
	}
}

type hashReport struct {
	Keys     int          `json:"keys"`
	Cap      int          `json:"cap"`
	Deleted  int          `json:"deleted"`
	Rebuilds []transition `json:"rebuilds"`
	Acquires int64        `json:"acquires"`
	Bytes    int64        `json:"bytes_granted"`
}

func runHash(cmd *cobra.Command, g *globalFlags, f *hashFlags) error {
	if f.keys < 0 || f.initial < 1 || f.slack < 1 {
		return fmt.Errorf("keys, initial and slack must be positive")
	}
	probe, err := parseProbe(f.probe)
	if err != nil {
		return err
	}

	rec := &recorder{}
	opts := append(g.containerOptions(cmd, rec),
		container.WithAllocator(alloc.NewInstrumented(alloc.NewHeap(), alloc.WithMetrics(rec), alloc.WithName("heap"))),
		container.WithInitialCapacity(f.initial),
		container.WithSlackRatio(f.slack),
		container.WithProbe(probe),
		container.WithName("hash"),
	)
	m := hashmap.New[int, int](opts...)
	for k := 0; k < f.keys; k++ {
		if _, err := m.TryAdd(k, k); err != nil {
			return err
		}
	}
	if f.churn {
		for k := 0; k < f.keys; k += 2 {
			m.Remove(k)
		}
	}

	stats := rec.GetStats()
	report := hashReport{
		Keys:     m.Len(),
		Cap:      m.Cap(),
		Deleted:  m.DeletedCount(),
		Rebuilds: rec.rebuilds,
		Acquires: stats.AcquireCount,
		Bytes:    stats.BytesGranted,
	}
	if g.json {
		return printJSON(cmd.OutOrStdout(), report)
	}

	w := cmd.OutOrStdout()
	for _, r := range report.Rebuilds {
		fmt.Fprintf(w, "rebuild %d -> %d\n", r.From, r.To)
	}
	fmt.Fprintf(w, "keys=%d cap=%d deleted=%d acquires=%d bytes=%d\n",
		report.Keys, report.Cap, report.Deleted, report.Acquires, report.Bytes)
	return nil
}
