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

func newRQSizesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rqsizes",
		Short: "plot throughput relative to " + baseline + " against range query size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mb, err := o.microbench()
			if err != nil {
				return err
			}
			return plotRQSizes(cmd.Context(), o, mb)
		},
	}
}

// rqSizeData holds the range query size series of one data structure,
// indexed by algorithm key and thread count.
type rqSizeData map[string]map[int]bench.Series

func loadRQSizes(ctx context.Context, o *options, mb *microbench, ds string, algos []render.Algorithm) (rqSizeData, int, error) {
	path, err := mb.gen.GetOrGenerate(ctx, filepath.Join(o.microbenchDir, "rq_sizes"), ds, mb.trials)
	if err != nil {
		return nil, 0, err
	}
	t, err := bench.Load(path)
	if err != nil {
		return nil, 0, err
	}
	data := make(rqSizeData)
	count := 0
	for _, a := range algos {
		data[a.Key] = make(map[int]bench.Series)
		for _, n := range mb.threads {
			rows, err := t.Filter(bench.Where(
				bench.ColList, bench.ListName(ds, a.Key),
				bench.ColMaxKey, o.rqsizesMaxKey,
				bench.ColWorkers, n,
			))
			if err != nil {
				return nil, 0, err
			}
			s, err := rows.Project(bench.ColRQSize, bench.ColThroughput)
			if err != nil {
				return nil, 0, err
			}
			data[a.Key][n] = s
			count += rows.Len()
		}
	}
	return data, count, nil
}

func plotRQSizes(ctx context.Context, o *options, mb *microbench) error {
	found := false
	for _, k := range mb.keySizes {
		found = found || k == o.rqsizesMaxKey
	}
	if !found {
		log.WithField("maxkey", o.rqsizesMaxKey).Warn("Key range of rqsizes is not among the configured key ranges")
	}

	algos := render.Without(render.Algorithms(), "ubundle")
	all := make(map[string]rqSizeData)
	count := 0
	for _, ds := range mb.datastructures {
		data, n, err := loadRQSizes(ctx, o, mb, ds, algos)
		if err != nil {
			return err
		}
		all[ds] = data
		count += n
	}
	if count == 0 {
		log.Warn("No data found for rqsizes")
		return nil
	}

	for _, ds := range mb.datastructures {
		log.WithField("ds", ds).Info("Plotting rq_sizes")
		data := all[ds]
		var (
			bars       []render.Bar
			categories []string
		)
		for _, a := range algos {
			if a.Key == baseline {
				continue
			}
			opacity := 1.0
			for _, n := range mb.threads {
				speedup := bench.Ratio(data[a.Key][n], data[baseline][n])
				if categories == nil && !speedup.IsEmpty() {
					categories = speedup.XLabels()
				}
				bars = append(bars, render.Bar{
					Name:   fmt.Sprintf("%s (n=%d, %s)", a.Label, n, ds),
					Color:  render.WithOpacity(a.Color, opacity),
					Values: speedup.Y,
				})
				opacity -= 1 / float64(len(mb.threads)+1)
			}
		}

		l := o.layout()
		l.Title = ds
		l.XLabel = "Range Query Size"
		l.YLabel = "Rel. Throughput"
		l.RefLines = []float64{1}
		p, err := render.Bars(l, categories, bars)
		if errors.Cause(err) == render.ErrNoData {
			log.WithField("ds", ds).Warn("No speedup data")
			continue
		}
		if err != nil {
			return err
		}
		name := fmt.Sprintf("rqsize_maxkey%d", o.rqsizesMaxKey)
		if err := render.Save(p, l, o.chartPath("microbench", "rqsizes", ds, name)); err != nil {
			return err
		}
	}
	return nil
}
