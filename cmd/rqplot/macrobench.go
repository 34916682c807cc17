package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	bench "github.com/rqbench/rqbench-plot"
	"github.com/rqbench/rqbench-plot/render"
)

// macrobenchDataStructures are the index data structures of the TPC-C runs.
var macrobenchDataStructures = []string{"SKIPLISTLOCK", "CITRUS"}

func newMacrobenchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "macrobench",
		Short: "plot TPC-C index throughput against thread count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return plotMacrobench(cmd.Context(), o, cmd.OutOrStdout())
		},
	}
}

func plotMacrobench(ctx context.Context, o *options, out io.Writer) error {
	gen := &bench.Generator{Script: o.macrobenchScript}
	path, err := gen.ConvertSummary(ctx, filepath.Join(o.macrobenchDir, "rq_tpcc"))
	if err != nil {
		return err
	}
	t, err := bench.Load(path)
	if err != nil {
		return err
	}
	for _, ds := range macrobenchDataStructures {
		if err := plotMacrobenchDS(o, t, ds, out); err != nil {
			return err
		}
	}
	return nil
}

func plotMacrobenchDS(o *options, t *bench.Table, ds string, out io.Writer) error {
	logger := log.WithField("ds", ds)
	logger.Info("Plotting macrobench")
	data, err := t.Filter(bench.Where(bench.ColDataStructure, ds))
	if err != nil {
		return err
	}
	if data, err = data.Scale(bench.ColIxThroughput, 1e6); err != nil {
		return err
	}
	algos := render.Without(render.Algorithms(), "rwlock")

	if o.printSpeedup {
		if err := printMacroSpeedups(out, data, ds, algos); err != nil {
			return err
		}
	}

	var traces []render.Trace
	for _, a := range algos {
		if a.Macrobench == "" {
			continue
		}
		rows, err := data.Filter(bench.Where(bench.ColRQAlg, a.Macrobench))
		if err != nil {
			return err
		}
		s, err := rows.Project(bench.ColThreads, bench.ColIxThroughput)
		if err != nil {
			return err
		}
		traces = append(traces, render.Trace{Style: a, Series: s})
	}

	l := o.layout()
	l.Title = ds
	l.XScale = render.Category
	l.XLabel = "threads"
	l.YMin, l.YMax = -10, 100
	if o.yaxisTitles {
		l.YLabel = "Mops/s"
	}
	p, err := render.Lines(l, traces)
	if errors.Cause(err) == render.ErrNoData {
		logger.Warn("No macrobenchmark data")
		return nil
	}
	if err != nil {
		return err
	}
	return render.Save(p, l, o.chartPath("macrobench", strings.ToLower(ds), ds))
}

func printMacroSpeedups(out io.Writer, data *bench.Table, ds string, algos []render.Algorithm) error {
	fmt.Fprintf(out, "-----%s-----\n", ds)
	if !data.IsEmpty() {
		threads, err := data.Project(bench.ColThreads, bench.ColIxThroughput)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, threads.XLabels())
	}
	over, _ := render.LookupAlgorithm(baseline)
	names := make([]string, len(algos))
	for i, a := range algos {
		names[i] = a.Macrobench
	}
	speedups, err := bench.MacroSpeedups(data, bench.ColIxThroughput, over.Macrobench, names)
	if err != nil {
		return err
	}
	for i := range speedups {
		speedups[i].Name = algos[i].Key
	}
	return bench.WriteMacroSpeedups(out, speedups)
}
