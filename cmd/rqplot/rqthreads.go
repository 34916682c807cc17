package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	bench "github.com/rqbench/rqbench-plot"
	"github.com/rqbench/rqbench-plot/render"
)

func newRQThreadsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rqthreads",
		Short: "plot update and range query throughput with dedicated range query threads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mb, err := o.microbench()
			if err != nil {
				return err
			}
			return plotRQThreads(cmd.Context(), o, mb)
		},
	}
}

func plotRQThreads(ctx context.Context, o *options, mb *microbench) error {
	for _, ds := range mb.datastructures {
		for _, k := range mb.keySizes {
			if err := plotRQThread(ctx, o, mb, ds, k); err != nil {
				return err
			}
		}
	}
	return nil
}

var rqThreadCharts = []struct {
	column, suffix, title string
}{
	{bench.ColUThroughput, "u", "Update throughput"},
	{bench.ColRQThroughput, "rq", "Range query throughput"},
}

func plotRQThread(ctx context.Context, o *options, mb *microbench, ds string, maxKey int) error {
	logger := log.WithFields(log.Fields{"ds": ds, "maxkey": maxKey})
	logger.Info("Plotting rq_threads")

	path, err := mb.gen.GetOrGenerate(ctx, filepath.Join(o.microbenchDir, "rq_threads"), ds, mb.trials)
	if err != nil {
		return err
	}
	t, err := bench.Load(path)
	if err != nil {
		return err
	}
	data, err := t.Filter(bench.Where(bench.ColMaxKey, maxKey, bench.ColRQThreads, o.rqthreadsNumRQThreads))
	if err != nil {
		return err
	}
	if data.IsEmpty() {
		logger.Warn("No data at given key range")
		return nil
	}
	for _, c := range rqThreadCharts {
		if data, err = data.Scale(c.column, 1e6); err != nil {
			return err
		}
	}

	algos := render.Without(render.Algorithms(), "ubundle")
	for _, c := range rqThreadCharts {
		var traces []render.Trace
		for _, a := range algos {
			rows, err := data.Filter(bench.Where(bench.ColList, bench.ListName(ds, a.Key)))
			if err != nil {
				return err
			}
			if rows, err = rows.FilterIn(bench.ColRQSize, anySlice(o.rqthreadsRQSizes)...); err != nil {
				return err
			}
			y, err := rows.Values(c.column)
			if err != nil {
				return err
			}
			traces = append(traces, render.Trace{Style: a, Series: bench.Series{X: o.rqthreadsRQSizes, Y: y}})
		}

		l := o.layout()
		l.Title = c.title
		l.XScale = render.Log
		l.XLabel = "Range Query Size"
		if o.yaxisTitles {
			l.YLabel = "Mops/s"
		}
		p, err := render.Lines(l, traces)
		if errors.Cause(err) == render.ErrNoData {
			logger.WithField("column", c.column).Warn("No algorithm has data")
			continue
		}
		if err != nil {
			return err
		}
		name := fmt.Sprintf("nrqthreads%d_maxkey%d_%s", o.rqthreadsNumRQThreads, maxKey, c.suffix)
		if err := render.Save(p, l, o.chartPath("microbench", "rq_threads", ds, name)); err != nil {
			return err
		}
	}
	return nil
}
