package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/array"
	"github.com/hupe1980/collgo/container"
	"github.com/hupe1980/collgo/growth"
)

type arrayFlags struct {
	elems     int
	allocator string
	arenaSize int
	policy    string
}

func newArrayCmd(g *globalFlags) *cobra.Command {
	f := &arrayFlags{}
	cmd := &cobra.Command{
		Use:   "array",
		Short: "Print the growth of a dynamic array on an allocator",
		Long: `The array command appends int64 elements to a dynamic array and prints every
capacity change. On an arena most growth happens in place.

Example:
  collplan array --elems 1000
  collplan array --elems 1000 --allocator arena --arena-size 65536`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runArray(cmd, g, f)
		},
	}
	cmd.Flags().IntVar(&f.elems, "elems", 1000, "Number of elements to append")
	cmd.Flags().StringVar(&f.allocator, "allocator", "heap", "Allocator: heap, arena")
	cmd.Flags().IntVar(&f.arenaSize, "arena-size", 1<<16, "Arena size in bytes")
	cmd.Flags().StringVar(&f.policy, "policy", "default", "Growth policy")
	return cmd
}

type arrayReport struct {
	Elems      int          `json:"elems"`
	Cap        int          `json:"cap"`
	Grows      []transition `json:"grows"`
	Extensions uint64       `json:"extensions,omitempty"`
	ArenaUsed  int          `json:"arena_used,omitempty"`
}

func runArray(cmd *cobra.Command, g *globalFlags, f *arrayFlags) error {
	policy, ok := growth.ByName(f.policy)
	if !ok {
		return fmt.Errorf("unknown growth policy %q", f.policy)
	}

	var (
		proto alloc.Allocator
		arena *alloc.Arena
	)
	switch f.allocator {
	case "heap":
		proto = alloc.NewHeap()
	case "arena":
		if f.arenaSize < 1 {
			return fmt.Errorf("arena size must be positive")
		}
		arena = alloc.NewArena(f.arenaSize)
		proto = arena.Handle()
	default:
		return fmt.Errorf("unknown allocator %q", f.allocator)
	}

	rec := &recorder{}
	opts := append(g.containerOptions(cmd, rec),
		container.WithAllocator(proto),
		container.WithGrowth(policy),
		container.WithName("array"),
	)
	a := array.New[int64](opts...)
	for i := 0; i < f.elems; i++ {
		if _, err := a.TryAdd(int64(i)); err != nil {
			return fmt.Errorf("append element %d: %w", i, err)
		}
	}

	report := arrayReport{Elems: a.Len(), Cap: a.Cap(), Grows: rec.grows}
	if arena != nil {
		report.Extensions = arena.Stats().Extensions
		report.ArenaUsed = arena.Len()
	}
	if g.json {
		return printJSON(cmd.OutOrStdout(), report)
	}

	w := cmd.OutOrStdout()
	for _, t := range report.Grows {
		fmt.Fprintf(w, "grow %d -> %d\n", t.From, t.To)
	}
	fmt.Fprintf(w, "elems=%d cap=%d", report.Elems, report.Cap)
	if arena != nil {
		fmt.Fprintf(w, " extensions=%d arena_used=%d", report.Extensions, report.ArenaUsed)
	}
	fmt.Fprintln(w)
	return nil
}
