// rqplot draws the figures of the range query benchmarks.
//
// Microbenchmark results are read from <microbench-dir>/<experiment>/<ds>.csv
// and macrobenchmark results from <macrobench-dir>/rq_tpcc/data.csv. Missing
// CSV files are generated with the harness make_csv.sh scripts. Unless
// --autodetect=false is given, the thread counts, data structures, key
// ranges and trial count are read from the harness configuration.
package main

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	o := defaultOptions()
	root := &cobra.Command{
		Use:           "rqplot",
		Short:         "plot range query benchmark results",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(o.logLevel)
			if err != nil {
				return errors.Wrap(err, "invalid --loglevel")
			}
			log.SetLevel(lvl)
			log.SetOutput(os.Stderr)
			return nil
		},
	}
	o.register(root)
	root.AddCommand(
		newWorkloadsCmd(o),
		newRQSizesCmd(o),
		newRQThreadsCmd(o),
		newMacrobenchCmd(o),
		newAllCmd(o),
	)
	return root
}

func newAllCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "plot every enabled microbenchmark experiment and the macrobenchmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mb, err := o.microbench()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if mb.enabled(expWorkloads) {
				if err := plotWorkloads(ctx, o, mb, cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			if mb.enabled(expRQThreads) {
				if err := plotRQThreads(ctx, o, mb); err != nil {
					return err
				}
			}
			if mb.enabled(expRQSizes) {
				if err := plotRQSizes(ctx, o, mb); err != nil {
					return err
				}
			}
			return plotMacrobench(ctx, o, cmd.OutOrStdout())
		},
	}
}
