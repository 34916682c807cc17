package bench

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Cell is one entry of a SpeedupReport. OK is false if either side of the
// ratio had no measurement.
type Cell struct {
	Value float64
	OK    bool
}

// SpeedupRow holds the speedups of one algorithm.
type SpeedupRow struct {
	Name  string
	Cells []Cell
}

// SpeedupReport is a table of speedups of several algorithms over a
// baseline algorithm, one column per configuration point.
type SpeedupReport struct {
	Title   string
	Axis    string // label printed above the columns
	Columns []string
	Rows    []SpeedupRow
}

// ThreadSpeedups compares the throughput of each algorithm on data structure
// ds with the throughput of over, for every worker thread count. Only the
// first matching row of each side is used.
func ThreadSpeedups(t *Table, ds, over string, algos []string, threads []int) (*SpeedupReport, error) {
	r := &SpeedupReport{
		Title: fmt.Sprintf("Speedup over %q for %s", over, ds),
		Axis:  "# threads",
	}
	for _, n := range threads {
		r.Columns = append(r.Columns, strconv.Itoa(n))
	}
	for _, algo := range algos {
		if algo == over {
			continue
		}
		row := SpeedupRow{Name: algo, Cells: make([]Cell, len(threads))}
		for i, n := range threads {
			num, numOK, err := t.First(Where(ColList, ListName(ds, algo), ColWorkers, n), ColThroughput)
			if err != nil {
				return nil, err
			}
			den, denOK, err := t.First(Where(ColList, ListName(ds, over), ColWorkers, n), ColThroughput)
			if err != nil {
				return nil, err
			}
			if numOK && denOK {
				row.Cells[i] = Cell{Value: num / den, OK: true}
			}
		}
		r.Rows = append(r.Rows, row)
	}
	return r, nil
}

// WriteTo prints the report as a fixed width table. Missing cells are
// printed as "-".
func (r *SpeedupReport) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if r.Title != "" {
		fmt.Fprintf(&buf, "%s\n\n", r.Title)
	}
	fmt.Fprintf(&buf, "%-15s|%*s\n", "algorithm", 10*len(r.Columns), r.Axis)
	fmt.Fprintf(&buf, "%s|%s\n", strings.Repeat("-", 15), strings.Repeat("-", 10*len(r.Columns)))
	fmt.Fprintf(&buf, "%-15s|", "")
	for _, c := range r.Columns {
		fmt.Fprintf(&buf, "%10s", c)
	}
	buf.WriteByte('\n')
	for _, row := range r.Rows {
		fmt.Fprintf(&buf, "%-15s|", row.Name)
		for _, c := range row.Cells {
			if c.OK {
				fmt.Fprintf(&buf, "%10.3g", c.Value)
			} else {
				fmt.Fprintf(&buf, "%10s", "-")
			}
		}
		buf.WriteByte('\n')
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// MacroSpeedup is the speedup series of one macrobenchmark range query
// algorithm over the baseline.
type MacroSpeedup struct {
	Name   string
	Ratios []float64
	Mean   float64
	// MultiMean skips the first (single threaded) configuration.
	MultiMean float64
	OK        bool
}

// MacroSpeedups divides column y of each algorithm's rows by the baseline's
// rows, position by position. Algorithms whose row count doesn't match the
// baseline, or that have no rows, are reported with OK false.
func MacroSpeedups(t *Table, y, over string, algos []string) ([]MacroSpeedup, error) {
	base, err := t.Filter(Where(ColRQAlg, over))
	if err != nil {
		return nil, err
	}
	den, err := base.Values(y)
	if err != nil {
		return nil, err
	}
	var out []MacroSpeedup
	for _, algo := range algos {
		rows, err := t.Filter(Where(ColRQAlg, algo))
		if err != nil {
			return nil, err
		}
		num, err := rows.Values(y)
		if err != nil {
			return nil, err
		}
		s := MacroSpeedup{Name: algo, Mean: math.NaN(), MultiMean: math.NaN()}
		if len(num) > 0 && len(num) == len(den) {
			s.Ratios = RatioValues(num, den)
			s.Mean = stat.Mean(s.Ratios, nil)
			if len(s.Ratios) > 1 {
				s.MultiMean = stat.Mean(s.Ratios[1:], nil)
			}
			s.OK = true
		}
		out = append(out, s)
	}
	return out, nil
}

// WriteMacroSpeedups prints the ratios and their averages.
func WriteMacroSpeedups(w io.Writer, speedups []MacroSpeedup) error {
	var buf bytes.Buffer
	for _, s := range speedups {
		fmt.Fprintln(&buf, s.Name)
		if !s.OK {
			fmt.Fprintln(&buf, "-")
			continue
		}
		fmt.Fprintln(&buf, s.Ratios)
		fmt.Fprintf(&buf, "AVG: %.4g\n", s.Mean)
		fmt.Fprintf(&buf, "AVG (multithreaded-only): %.4g\n", s.MultiMean)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
