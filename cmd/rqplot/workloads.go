package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	bench "github.com/rqbench/rqbench-plot"
	"github.com/rqbench/rqbench-plot/render"
)

func newWorkloadsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "workloads",
		Short: "plot throughput against thread count for each update rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mb, err := o.microbench()
			if err != nil {
				return err
			}
			return plotWorkloads(cmd.Context(), o, mb, cmd.OutOrStdout())
		},
	}
}

func plotWorkloads(ctx context.Context, o *options, mb *microbench, out io.Writer) error {
	for _, ds := range mb.datastructures {
		for _, k := range mb.keySizes {
			for _, u := range o.workloadsURates {
				rq := o.workloadsRQRate
				if u == 100 {
					rq = 0
				}
				if err := plotWorkload(ctx, o, mb, out, ds, k, u, rq); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// workloadAlgorithms returns the algorithms drawn in the workloads figure
// of data structure ds.
func workloadAlgorithms(ds string) []render.Algorithm {
	ignore := []string{"ubundle"}
	if ds == "skiplistlock" {
		ignore = append(ignore, "bundle")
	}
	return render.Without(render.Algorithms(), ignore...)
}

func plotWorkload(ctx context.Context, o *options, mb *microbench, out io.Writer, ds string, maxKey, urate, rqrate int) error {
	logger := log.WithFields(log.Fields{"ds": ds, "maxkey": maxKey, "urate": urate, "rqrate": rqrate})
	logger.Info("Plotting workloads")

	path, err := mb.gen.GetOrGenerate(ctx, filepath.Join(o.microbenchDir, "workloads"), ds, mb.trials)
	if err != nil {
		return err
	}
	t, err := bench.Load(path)
	if err != nil {
		return err
	}
	data, err := t.Filter(bench.Where(bench.ColMaxKey, maxKey, bench.ColUpdateRate, urate, bench.ColRQRate, rqrate))
	if err != nil {
		return err
	}
	if data.IsEmpty() {
		logger.Warn("No data at given key range")
		return nil
	}
	if data, err = data.Scale(bench.ColThroughput, 1e6); err != nil {
		return err
	}

	algos := workloadAlgorithms(ds)
	var traces []render.Trace
	for _, a := range algos {
		rows, err := data.Filter(bench.Where(bench.ColList, bench.ListName(ds, a.Key)))
		if err != nil {
			return err
		}
		if rows, err = rows.FilterIn(bench.ColWorkers, anySlice(mb.threads)...); err != nil {
			return err
		}
		y, err := rows.Values(bench.ColThroughput)
		if err != nil {
			return err
		}
		traces = append(traces, render.Trace{Style: a, Series: bench.Series{X: mb.threads, Y: y}})
	}

	l := o.layout()
	l.XScale = render.Category
	l.XLabel = "threads"
	if o.yaxisTitles {
		l.YLabel = "Mops/s"
	}
	p, err := render.Lines(l, traces)
	if errors.Cause(err) == render.ErrNoData {
		logger.Warn("No algorithm has data")
		return nil
	}
	if err != nil {
		return err
	}
	name := fmt.Sprintf("update%d_rq%d_maxkey%d", urate, rqrate, maxKey)
	if err := render.Save(p, l, o.chartPath("microbench", "workloads", ds, name)); err != nil {
		return err
	}

	if o.printSpeedup {
		keys := algoKeys(render.Without(render.Algorithms(), "ubundle", "vcas"))
		r, err := bench.ThreadSpeedups(data, ds, baseline, keys, mb.threads)
		if err != nil {
			return err
		}
		r.Title = fmt.Sprintf("Speedup over %q for %s @ %d%% updates", baseline, ds, urate)
		if _, err := r.WriteTo(out); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}
