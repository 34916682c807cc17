// rqstat prints the mean and standard deviation of a result column for each
// distinct value of another column.
//
//	rqstat -x wrk_threads -y tot_thruput -filter list=citrus-bundle,max_key=100000 citrus.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	bench "github.com/rqbench/rqbench-plot"
)

func main() {
	var (
		x         = flag.String("x", bench.ColWorkers, "column to group by")
		y         = flag.String("y", bench.ColThroughput, "column to summarize")
		filter    = flag.String("filter", "", "comma separated column=value conditions")
		printRows = flag.Bool("print", false, "print the matching rows")
	)
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("no result files given")
	}
	q, err := bench.ParseQuery(*filter)
	if err != nil {
		log.Fatal(err)
	}
	for _, file := range flag.Args() {
		if err := summarize(os.Stdout, file, q, *x, *y, *printRows); err != nil {
			log.Fatal(err)
		}
	}
}

func summarize(w io.Writer, file string, q bench.Query, x, y string, printRows bool) error {
	t, err := bench.Load(file)
	if err != nil {
		return err
	}
	rows, err := t.Filter(q)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "-- %s (%d of %d rows)", file, rows.Len(), t.Len())
	if len(q) > 0 {
		fmt.Fprintf(w, " where %v", q)
	}
	fmt.Fprintln(w)
	if printRows {
		if err := rows.Fprint(w); err != nil {
			return err
		}
	}
	s, err := rows.Project(x, y)
	if err != nil {
		return err
	}
	for _, label := range s.XLabels() {
		group, err := rows.Filter(bench.Where(x, label))
		if err != nil {
			return err
		}
		vals, err := group.Values(y)
		if err != nil {
			return err
		}
		mean, std := stat.MeanStdDev(vals, nil)
		fmt.Fprintf(w, " %s=%-10s n=%-3d mean %s: %.4g (+- %.4g)\n", x, label, len(vals), y, mean, std)
	}
	return nil
}
