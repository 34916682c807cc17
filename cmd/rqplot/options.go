package main

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	bench "github.com/rqbench/rqbench-plot"
	"github.com/rqbench/rqbench-plot/config"
	"github.com/rqbench/rqbench-plot/render"
)

// Experiment functions of experiment_list_generate.sh.
const (
	expWorkloads = "run_workloads"
	expRQSizes   = "run_rq_sizes"
	expRQThreads = "run_rq_threads"
)

// baseline is the algorithm speedups are computed against.
const baseline = "unsafe"

type options struct {
	microbenchDir    string
	macrobenchDir    string
	saveDir          string
	format           string
	microbenchScript string
	macrobenchScript string

	autodetect        bool
	detectThreads     bool
	detectExperiments bool
	detectTrials      bool
	configMk          string
	experimentList    string
	runscript         string

	nthreads       []string
	datastructures []string
	maxKeys        []string
	experiments    []string
	ntrials        int

	workloadsRQRate       int
	workloadsURates       []int
	rqsizesMaxKey         int
	rqthreadsNumRQThreads int
	rqthreadsRQSizes      []int

	legends      bool
	yaxisTitles  bool
	printSpeedup bool
	width        float64
	height       float64
	logLevel     string
}

func defaultOptions() *options {
	return &options{
		microbenchDir:         "./microbench/data",
		macrobenchDir:         "./macrobench/data",
		saveDir:               "./figures",
		format:                "png",
		microbenchScript:      "./microbench/make_csv.sh",
		macrobenchScript:      "./macrobench/make_csv.sh",
		autodetect:            true,
		configMk:              "./config.mk",
		experimentList:        "./microbench/experiment_list_generate.sh",
		runscript:             "./microbench/runscript.sh",
		ntrials:               3,
		workloadsRQRate:       10,
		workloadsURates:       []int{0, 2, 10, 50, 90, 100},
		rqsizesMaxKey:         100000,
		rqthreadsNumRQThreads: 24,
		rqthreadsRQSizes:      []int{8, 64, 256, 1024, 8092, 16184},
		width:                 15,
		height:                10,
		logLevel:              "info",
	}
}

func (o *options) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.microbenchDir, "microbench-dir", o.microbenchDir, "location of microbenchmark data")
	f.StringVar(&o.macrobenchDir, "macrobench-dir", o.macrobenchDir, "location of macrobenchmark data")
	f.StringVar(&o.saveDir, "save-dir", o.saveDir, "directory where charts are saved")
	f.StringVar(&o.format, "format", o.format, "chart file format (png, svg, pdf, eps)")
	f.StringVar(&o.microbenchScript, "microbench-script", o.microbenchScript, "script generating microbenchmark CSV files")
	f.StringVar(&o.macrobenchScript, "macrobench-script", o.macrobenchScript, "script converting the macrobenchmark summary")

	f.BoolVar(&o.autodetect, "autodetect", o.autodetect, "derive all configuration from the harness files")
	f.BoolVar(&o.detectThreads, "detect-threads", false, "read thread counts from --config-mk")
	f.BoolVar(&o.detectExperiments, "detect-experiments", false, "read experiments, data structures and key ranges from --experiment-list")
	f.BoolVar(&o.detectTrials, "detect-trials", false, "read the number of trials from --runscript")
	f.StringVar(&o.configMk, "config-mk", o.configMk, "harness config.mk")
	f.StringVar(&o.experimentList, "experiment-list", o.experimentList, "harness experiment_list_generate.sh")
	f.StringVar(&o.runscript, "runscript", o.runscript, "harness runscript.sh")

	f.StringSliceVar(&o.nthreads, "nthreads", nil, "thread counts to plot")
	f.StringSliceVar(&o.datastructures, "datastructures", nil, "data structures to plot")
	f.StringSliceVar(&o.maxKeys, "max-keys", nil, "key ranges to plot (k, m, g suffixes allowed)")
	f.StringSliceVar(&o.experiments, "experiments", nil, "experiments to plot")
	f.IntVar(&o.ntrials, "ntrials", o.ntrials, "number of trials per experiment")

	f.IntVar(&o.workloadsRQRate, "workloads-rqrate", o.workloadsRQRate, "range query rate of the workloads experiment")
	f.IntSliceVar(&o.workloadsURates, "workloads-urates", o.workloadsURates, "update rates of the workloads experiment")
	f.IntVar(&o.rqsizesMaxKey, "rqsizes-maxkey", o.rqsizesMaxKey, "key range of the rqsizes experiment")
	f.IntVar(&o.rqthreadsNumRQThreads, "rqthreads-numrqthreads", o.rqthreadsNumRQThreads, "dedicated range query threads of the rqthreads experiment")
	f.IntSliceVar(&o.rqthreadsRQSizes, "rqthreads-rqsizes", o.rqthreadsRQSizes, "range query sizes of the rqthreads experiment")

	f.BoolVar(&o.legends, "legends", false, "show legends")
	f.BoolVar(&o.yaxisTitles, "yaxis-titles", false, "show y axis titles")
	f.BoolVar(&o.printSpeedup, "print-speedup", false, "print the speedup over "+baseline)
	f.Float64Var(&o.width, "width", o.width, "chart width in cm")
	f.Float64Var(&o.height, "height", o.height, "chart height in cm")
	f.StringVar(&o.logLevel, "loglevel", o.logLevel, "log level")
}

// layout returns the starting layout of every chart.
func (o *options) layout() render.Layout {
	l := render.DefaultLayout()
	l.Width = vg.Length(o.width) * vg.Centimeter
	l.Height = vg.Length(o.height) * vg.Centimeter
	l.Legend = o.legends
	return l
}

// chartPath returns the output file for a chart.
func (o *options) chartPath(elem ...string) string {
	name := filepath.Join(append([]string{o.saveDir}, elem...)...)
	return name + "." + strings.TrimPrefix(o.format, ".")
}

// microbench is the resolved configuration of the microbenchmark figures.
type microbench struct {
	threads        []int
	experiments    []string
	datastructures []string
	keySizes       []int
	trials         int
	gen            *bench.Generator
}

func (mb *microbench) enabled(exp string) bool {
	for _, e := range mb.experiments {
		if e == exp {
			return true
		}
	}
	return false
}

func (o *options) microbench() (*microbench, error) {
	detectThreads, detectExperiments, detectTrials := o.detectThreads, o.detectExperiments, o.detectTrials
	if o.autodetect {
		detectThreads, detectExperiments, detectTrials = true, true, true
	}
	mb := &microbench{gen: &bench.Generator{Script: o.microbenchScript}}

	if detectThreads {
		log.WithField("file", o.configMk).Info("Deriving thread configuration")
		c, err := config.ReadThreads(o.configMk)
		if err != nil {
			return nil, err
		}
		mb.threads = c.Counts()
	} else {
		if len(o.nthreads) == 0 {
			return nil, errors.New("--nthreads is required without thread detection")
		}
		var err error
		if mb.threads, err = bench.ParseCounts(o.nthreads); err != nil {
			return nil, errors.Wrap(err, "invalid --nthreads")
		}
	}

	if detectExperiments {
		log.WithField("file", o.experimentList).Info("Detecting microbenchmark configuration")
		e, err := config.ReadExperimentList(o.experimentList, expWorkloads, expRQSizes, expRQThreads)
		if err != nil {
			return nil, err
		}
		mb.experiments, mb.datastructures, mb.keySizes = e.Enabled, e.DataStructures, e.KeySizes
	} else {
		mb.experiments = o.experiments
	}
	if len(o.datastructures) > 0 {
		mb.datastructures = o.datastructures
	}
	if len(o.maxKeys) > 0 {
		var err error
		if mb.keySizes, err = bench.ParseCounts(o.maxKeys); err != nil {
			return nil, errors.Wrap(err, "invalid --max-keys")
		}
	}
	if len(mb.datastructures) == 0 {
		return nil, errors.New("no data structures configured, use --datastructures")
	}

	if detectTrials {
		n, err := config.ReadTrials(o.runscript)
		if err != nil {
			return nil, err
		}
		mb.trials = n
	} else {
		mb.trials = o.ntrials
	}

	log.WithFields(log.Fields{
		"threads":        mb.threads,
		"experiments":    mb.experiments,
		"datastructures": mb.datastructures,
		"keysizes":       mb.keySizes,
		"trials":         mb.trials,
	}).Info("Microbenchmark configuration")
	return mb, nil
}

// algoKeys returns the keys of algos.
func algoKeys(algos []render.Algorithm) []string {
	keys := make([]string, len(algos))
	for i, a := range algos {
		keys[i] = a.Key
	}
	return keys
}

func anySlice(xs []int) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
