package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strconv"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
)

// Table holds the rows of one benchmark result file. It is never modified
// after Load; every query returns a new Table.
type Table struct {
	Path string
	t    *table.Table
}

// ParseError is returned by Load when the file is not a rectangular
// comma separated table.
type ParseError struct {
	Path string
	Line int // 0 if unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ColumnError reports a query against a column that doesn't exist or
// doesn't have the required type.
type ColumnError struct {
	Path   string
	Column string
	Reason string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: column %q %s", e.Path, e.Column, e.Reason)
}

// Load reads a CSV file. The first line names the columns.
func Load(path string) (*Table, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't load results")
	}
	defer fd.Close()
	return ReadTable(fd, path)
}

// ReadTable is like Load, but reads from r. The name is used in errors.
func ReadTable(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: name, Err: errors.New("missing header")}
	} else if err != nil {
		return nil, csvError(name, err)
	}
	// The harness scripts end lines with a delimiter. Like the column
	// header, a trailing empty field is dropped.
	if len(header) > 1 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	seen := make(map[string]bool, len(header))
	for _, col := range header {
		if seen[col] {
			return nil, &ParseError{Path: name, Line: 1, Err: errors.Errorf("duplicate column %q", col)}
		}
		seen[col] = true
	}

	cells := make([][]string, len(header))
	for i := range cells {
		cells[i] = make([]string, 0)
	}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, csvError(name, err)
		}
		if len(rec) == len(header)+1 && rec[len(rec)-1] == "" {
			rec = rec[:len(header)]
		}
		if len(rec) != len(header) {
			return nil, &ParseError{Path: name, Line: line, Err: errors.Errorf("got %d fields, want %d", len(rec), len(header))}
		}
		for i, v := range rec {
			cells[i] = append(cells[i], v)
		}
	}

	var b table.Builder
	for i, col := range header {
		b.Add(col, coerceColumn(cells[i]))
	}
	return &Table{Path: name, t: b.Done()}, nil
}

func csvError(name string, err error) error {
	if perr, ok := err.(*csv.ParseError); ok {
		return &ParseError{Path: name, Line: perr.Line, Err: perr.Err}
	}
	return &ParseError{Path: name, Err: err}
}

// coerceColumn converts a column to []int when every cell is an integer, to
// []float64 when every non-empty cell is a number (empty cells become NaN)
// and leaves it as []string otherwise.
func coerceColumn(cells []string) table.Slice {
	if len(cells) == 0 {
		return cells
	}
	ints := make([]int, len(cells))
	isInt := true
	for i, s := range cells {
		v, err := strconv.ParseInt(s, 10, 0)
		if err != nil {
			isInt = false
			break
		}
		ints[i] = int(v)
	}
	if isInt {
		return ints
	}
	floats := make([]float64, len(cells))
	for i, s := range cells {
		if s == "" {
			floats[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return cells
		}
		floats[i] = v
	}
	return floats
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.t.Len()
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.t.Columns()...)
}

func (t *Table) String() string {
	return fmt.Sprintf("%s %v", t.Path, t.t.Columns())
}

// Fprint writes the rows of t to w as an aligned text table.
func (t *Table) Fprint(w io.Writer) error {
	return table.Fprint(w, t.t)
}

// Filter returns the rows matching every condition of q, in their
// original order. Referencing a column that doesn't exist is an error;
// matching nothing is not.
func (t *Table) Filter(q Query) (*Table, error) {
	for _, c := range q {
		if t.t.Column(c.Column) == nil {
			return nil, t.unknown(c.Column)
		}
	}
	var g table.Grouping = t.t
	for _, c := range q {
		v, ok := coerceValue(t.t.Column(c.Column), c.Value)
		if !ok {
			return t.selectRows(nil), nil
		}
		g = table.FilterEq(g, c.Column, v)
	}
	return t.derive(table.Flatten(g)), nil
}

// FilterIn returns the rows whose value in column is one of values.
func (t *Table) FilterIn(column string, values ...interface{}) (*Table, error) {
	col := t.t.Column(column)
	if col == nil {
		return nil, t.unknown(column)
	}
	want := make(map[interface{}]bool, len(values))
	for _, v := range values {
		if cv, ok := coerceValue(col, v); ok {
			want[cv] = true
		}
	}
	var (
		rv  = reflect.ValueOf(col)
		idx []int
	)
	for i := 0; i < rv.Len(); i++ {
		if want[rv.Index(i).Interface()] {
			idx = append(idx, i)
		}
	}
	return t.selectRows(idx), nil
}

// Values returns the numeric column in row order.
func (t *Table) Values(column string) ([]float64, error) {
	col := t.t.Column(column)
	if col == nil {
		return nil, t.unknown(column)
	}
	if t.Len() == 0 {
		return []float64{}, nil
	}
	switch col := col.(type) {
	case []int:
		vals := make([]float64, len(col))
		for i, v := range col {
			vals[i] = float64(v)
		}
		return vals, nil
	case []float64:
		return append([]float64(nil), col...), nil
	}
	return nil, &ColumnError{Path: t.Path, Column: column, Reason: "is not numeric"}
}

// Scale returns a copy of t where every value of the numeric column is
// divided by divisor.
func (t *Table) Scale(column string, divisor float64) (*Table, error) {
	vals, err := t.Values(column)
	if err != nil {
		return nil, err
	}
	for i := range vals {
		vals[i] /= divisor
	}
	return t.derive(table.NewBuilder(t.t).Add(column, vals).Done()), nil
}

// Project returns the distinct values of column x in ascending order, and
// all values of column y in row order. The two sequences have the same
// length only when the rows hold exactly one measurement per x value.
// Blank x cells are not part of the x sequence.
func (t *Table) Project(x, y string) (Series, error) {
	xs := t.t.Column(x)
	if xs == nil {
		return Series{}, t.unknown(x)
	}
	ys, err := t.Values(y)
	if err != nil {
		return Series{}, err
	}
	ux := slice.Nub(xs)
	if fx, ok := ux.([]float64); ok {
		ux = dropNaN(fx)
	}
	slice.Sort(ux)
	return Series{X: ux, Y: ys}, nil
}

// dropNaN removes the NaNs that blank cells leave in float columns. Nub
// keeps every one of them since NaN never equals itself.
func dropNaN(xs []float64) []float64 {
	out := xs[:0:0]
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// First returns the first value of column y among the rows matching q.
// ok is false if no row matches.
func (t *Table) First(q Query, y string) (v float64, ok bool, err error) {
	sub, err := t.Filter(q)
	if err != nil {
		return 0, false, err
	}
	vals, err := sub.Values(y)
	if err != nil || len(vals) == 0 {
		return 0, false, err
	}
	return vals[0], true, nil
}

func (t *Table) selectRows(idx []int) *Table {
	var b table.Builder
	for _, col := range t.t.Columns() {
		b.Add(col, slice.Select(t.t.Column(col), idx))
	}
	return t.derive(b.Done())
}

func (t *Table) derive(nt *table.Table) *Table {
	return &Table{Path: t.Path, t: nt}
}

func (t *Table) unknown(column string) error {
	return &ColumnError{Path: t.Path, Column: column, Reason: "does not exist"}
}
