package bench

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const workloadsCSV = `list,max_key,u_rate,rq_rate,wrk_threads,tot_thruput
ds-algoA,100,10,10,1,50
ds-algoB,100,10,10,1,100
ds-algoA,100,10,10,4,180
ds-algoB,100,10,10,4,420
ds-algoA,1000,10,10,1,40
ds-algoB,1000,10,10,1,70.5
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadString(t *testing.T, content string) *Table {
	t.Helper()
	tab, err := Load(writeFile(t, "results.csv", content))
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestLoad(t *testing.T) {
	tab := loadString(t, workloadsCSV)
	if tab.Len() != 6 {
		t.Fatalf("got %d rows, want 6", tab.Len())
	}
	wantCols := []string{"list", "max_key", "u_rate", "rq_rate", "wrk_threads", "tot_thruput"}
	if diff := cmp.Diff(wantCols, tab.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	// Column types are inferred from the cells.
	if _, ok := tab.t.Column("max_key").([]int); !ok {
		t.Errorf("max_key has type %T, want []int", tab.t.Column("max_key"))
	}
	if _, ok := tab.t.Column("tot_thruput").([]float64); !ok {
		t.Errorf("tot_thruput has type %T, want []float64", tab.t.Column("tot_thruput"))
	}
	if _, ok := tab.t.Column("list").([]string); !ok {
		t.Errorf("list has type %T, want []string", tab.t.Column("list"))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want an os.ErrNotExist error", err)
	}
}

func TestLoadParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
	}{
		{"empty", "", 0},
		{"ragged", "a,b,c\n1,2,3\n1,2\n", 3},
		{"too long", "a,b\n1,2,3,4\n", 2},
		{"duplicate column", "a,b,a\n1,2,3\n", 1},
		{"bad quote", "a,b\n1,\"2\n", 0},
	}
	for _, test := range tests {
		_, err := Load(writeFile(t, "bad.csv", test.content))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%s: got %v, want *ParseError", test.name, err)
			continue
		}
		if test.line != 0 && perr.Line != test.line {
			t.Errorf("%s: got line %d, want %d", test.name, perr.Line, test.line)
		}
	}
}

func TestLoadTrailingDelimiter(t *testing.T) {
	tab := loadString(t, "a,b,\n1,2,\n3,4,\n")
	if diff := cmp.Diff([]string{"a", "b"}, tab.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	vals, err := tab.Values("b")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{2, 4}, vals); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBlankCells(t *testing.T) {
	tab := loadString(t, "a,b\n1,2.5\n2,\n")
	vals, err := tab.Values("b")
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 2 || vals[0] != 2.5 || !math.IsNaN(vals[1]) {
		t.Errorf("got %v, want [2.5 NaN]", vals)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	tab := loadString(t, "list,wrk_threads,tot_thruput\n")
	if !tab.IsEmpty() {
		t.Fatalf("got %d rows, want 0", tab.Len())
	}
	sub, err := tab.Filter(Where(ColList, "ds-algoA", ColWorkers, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !sub.IsEmpty() {
		t.Errorf("got %d rows, want 0", sub.Len())
	}
	s, err := sub.Project(ColWorkers, ColThroughput)
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsEmpty() || s.XLen() != 0 {
		t.Errorf("got %+v, want empty series", s)
	}
}

func TestFilterEmptyQuery(t *testing.T) {
	tab := loadString(t, workloadsCSV)
	all, err := tab.Filter(nil)
	if err != nil {
		t.Fatal(err)
	}
	if all.Len() != tab.Len() {
		t.Fatalf("got %d rows, want %d", all.Len(), tab.Len())
	}
	got, _ := all.Values(ColThroughput)
	want, _ := tab.Values(ColThroughput)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row order changed (-want +got):\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	tab := loadString(t, workloadsCSV)
	tests := []struct {
		q    Query
		want []float64 // tot_thruput of the matching rows
	}{
		{Where(ColList, "ds-algoA"), []float64{50, 180, 40}},
		{Where(ColList, "ds-algoC"), []float64{}},
		{Where(ColMaxKey, 100), []float64{50, 100, 180, 420}},
		{Where(ColMaxKey, "1000"), []float64{40, 70.5}},
		{Where(ColMaxKey, int64(100), ColWorkers, 4), []float64{180, 420}},
		{Where(ColMaxKey, 100.0, ColList, "ds-algoB", ColWorkers, 1), []float64{100}},
		{Where(ColMaxKey, 100.5), []float64{}},
		{Where(ColThroughput, 70.5), []float64{70.5}},
		{Where(ColThroughput, 100), []float64{100}},
		{Where(ColMaxKey, "many"), []float64{}},
	}
	for _, test := range tests {
		sub, err := tab.Filter(test.q)
		if err != nil {
			t.Errorf("%v: %v", test.q, err)
			continue
		}
		got, err := sub.Values(ColThroughput)
		if err != nil {
			t.Errorf("%v: %v", test.q, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%v: mismatch (-want +got):\n%s", test.q, diff)
		}
		if sub.IsEmpty() != (len(test.want) == 0) {
			t.Errorf("%v: IsEmpty() = %v", test.q, sub.IsEmpty())
		}
	}
	// The source table is unchanged.
	if tab.Len() != 6 {
		t.Errorf("source table has %d rows after filtering, want 6", tab.Len())
	}
}

// Every row of the result satisfies the query and no other row does.
func TestFilterExact(t *testing.T) {
	tab := loadString(t, workloadsCSV)
	q := Where(ColMaxKey, 100, ColWorkers, 1)
	sub, err := tab.Filter(q)
	if err != nil {
		t.Fatal(err)
	}
	keys := tab.t.Column(ColMaxKey).([]int)
	threads := tab.t.Column(ColWorkers).([]int)
	count := 0
	for i := range keys {
		if keys[i] == 100 && threads[i] == 1 {
			count++
		}
	}
	if sub.Len() != count {
		t.Errorf("got %d rows, want %d", sub.Len(), count)
	}
	for _, k := range sub.t.Column(ColMaxKey).([]int) {
		if k != 100 {
			t.Errorf("row with max_key %d in result", k)
		}
	}
}

func TestFilterUnknownColumn(t *testing.T) {
	tab := loadString(t, workloadsCSV)
	_, err := tab.Filter(Where(ColList, "ds-algoA", "nosuch", 1))
	var cerr *ColumnError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %v, want *ColumnError", err)
	}
	if cerr.Column != "nosuch" {
		t.Errorf("got column %q, want %q", cerr.Column, "nosuch")
	}
	// A value that can't match its column must not hide a later unknown column.
	_, err = tab.Filter(Where(ColMaxKey, "many", "nosuch", 1))
	if !errors.As(err, &cerr) || cerr.Column != "nosuch" {
		t.Errorf("got %v, want *ColumnError for nosuch", err)
	}
}

func TestFilterIn(t *testing.T) {
	tab := loadString(t, workloadsCSV)
	sub, err := tab.FilterIn(ColWorkers, 4, "8")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := sub.Values(ColThroughput)
	if diff := cmp.Diff([]float64{180, 420}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if _, err := tab.FilterIn("nosuch", 1); err == nil {
		t.Error("expected error for unknown column")
	}
	none, err := tab.FilterIn(ColWorkers)
	if err != nil {
		t.Fatal(err)
	}
	if !none.IsEmpty() {
		t.Errorf("got %d rows, want 0", none.Len())
	}
}

func TestProject(t *testing.T) {
	tab := loadString(t, `list,rq_size,tot_thruput
a,64,1
a,8,2
a,1024,3
a,64,4
`)
	s, err := tab.Project(ColRQSize, ColThroughput)
	if err != nil {
		t.Fatal(err)
	}
	// x is distinct and sorted numerically, y keeps every row in order.
	if diff := cmp.Diff([]int{8, 64, 1024}, s.X); diff != "" {
		t.Errorf("x mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 2, 3, 4}, s.Y); diff != "" {
		t.Errorf("y mismatch (-want +got):\n%s", diff)
	}
	// Projecting must not reorder the table.
	sizes := tab.t.Column(ColRQSize).([]int)
	if !reflect.DeepEqual(sizes, []int{64, 8, 1024, 64}) {
		t.Errorf("table column changed to %v", sizes)
	}
}

func TestProjectStrings(t *testing.T) {
	tab := loadString(t, "alg,v\nrlu,1\nbundle,2\nrlu,3\n")
	s, err := tab.Project("alg", "v")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"bundle", "rlu"}, s.X); diff != "" {
		t.Errorf("x mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectBlankX(t *testing.T) {
	tab := loadString(t, "x,y\n1.5,1\n,2\n0.5,3\n,4\n")
	s, err := tab.Project("x", "y")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0.5, 1.5}, s.X); diff != "" {
		t.Errorf("x mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 2, 3, 4}, s.Y); diff != "" {
		t.Errorf("y mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectErrors(t *testing.T) {
	tab := loadString(t, workloadsCSV)
	if _, err := tab.Project("nosuch", ColThroughput); err == nil {
		t.Error("expected error for unknown x column")
	}
	_, err := tab.Project(ColWorkers, ColList)
	var cerr *ColumnError
	if !errors.As(err, &cerr) || !strings.Contains(cerr.Reason, "numeric") {
		t.Errorf("got %v, want non-numeric column error", err)
	}
}

func TestScale(t *testing.T) {
	tab := loadString(t, workloadsCSV)
	scaled, err := tab.Scale(ColThroughput, 10)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := scaled.Values(ColThroughput)
	want := []float64{5, 10, 18, 42, 4, 7.05}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	orig, _ := tab.Values(ColThroughput)
	if orig[0] != 50 {
		t.Errorf("source table was modified: %v", orig)
	}
	if diff := cmp.Diff(tab.Columns(), scaled.Columns()); diff != "" {
		t.Errorf("column order changed (-want +got):\n%s", diff)
	}
	if _, err := tab.Scale(ColList, 10); err == nil {
		t.Error("expected error scaling a string column")
	}
}

func TestFirst(t *testing.T) {
	tab := loadString(t, workloadsCSV)
	v, ok, err := tab.First(Where(ColList, "ds-algoB"), ColThroughput)
	if err != nil || !ok || v != 100 {
		t.Errorf("got (%v, %v, %v), want (100, true, nil)", v, ok, err)
	}
	_, ok, err = tab.First(Where(ColList, "ds-algoC"), ColThroughput)
	if err != nil || ok {
		t.Errorf("got (%v, %v), want (false, nil)", ok, err)
	}
}

func TestFprint(t *testing.T) {
	tab := loadString(t, workloadsCSV)
	sub, err := tab.Filter(Where(ColList, "ds-algoB", ColMaxKey, 1000))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := sub.Fprint(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "70.5") || strings.Contains(buf.String(), "ds-algoA") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
