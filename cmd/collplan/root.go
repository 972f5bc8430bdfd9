package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/container"
)

var version = "dev"

type globalFlags struct {
	json    bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "collplan",
		Short: "Plan container capacities",
		Long: `collplan prints how collgo containers size their storage.

It drives real containers, so the numbers include allocator rounding.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&g.json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log container events to stderr")

	cmd.AddCommand(newGrowthCmd(g), newHashCmd(g), newArrayCmd(g))
	return cmd
}

// containerOptions returns the options shared by every driven container.
func (g *globalFlags) containerOptions(cmd *cobra.Command, m collgo.MetricsCollector) []container.Option {
	opts := []container.Option{container.WithMetrics(m)}
	if g.verbose {
		l := collgo.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, container.WithLogger(l))
	}
	return opts
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// recorder keeps the grow and rebuild events of one container.
type recorder struct {
	collgo.BasicMetricsCollector
	grows    []transition
	rebuilds []transition
}

type transition struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r *recorder) RecordGrow(name string, from, to int) {
	r.BasicMetricsCollector.RecordGrow(name, from, to)
	r.grows = append(r.grows, transition{from, to})
}

func (r *recorder) RecordRebuild(from, to int) {
	r.BasicMetricsCollector.RecordRebuild(from, to)
	r.rebuilds = append(r.rebuilds, transition{from, to})
}
