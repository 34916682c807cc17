package bench

import (
	"fmt"
	"reflect"

	"github.com/aclements/go-gg/table"
)

// Series is an x/y pair produced by Table.Project. X holds distinct values
// of the x column (a []int, []float64 or []string); Y holds measurements.
type Series struct {
	X table.Slice
	Y []float64
}

// Len returns the number of y values.
func (s Series) Len() int {
	return len(s.Y)
}

// IsEmpty reports whether the series has no measurements.
func (s Series) IsEmpty() bool {
	return len(s.Y) == 0
}

// XLen returns the number of x values.
func (s Series) XLen() int {
	if s.X == nil {
		return 0
	}
	return reflect.ValueOf(s.X).Len()
}

// XLabels formats the x values.
func (s Series) XLabels() []string {
	if s.X == nil {
		return nil
	}
	rv := reflect.ValueOf(s.X)
	labels := make([]string, rv.Len())
	for i := range labels {
		labels[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return labels
}

// XFloats returns the x values as floats. ok is false for categorical x.
func (s Series) XFloats() (xs []float64, ok bool) {
	switch x := s.X.(type) {
	case nil:
		return nil, true
	case []int:
		xs = make([]float64, len(x))
		for i, v := range x {
			xs[i] = float64(v)
		}
		return xs, true
	case []float64:
		return x, true
	}
	return nil, false
}

// Ratio divides num by den element-wise. The result takes its x values from
// den. If num has no measurements the result is empty. If the lengths
// differ, the result is len(den.Y) zeros.
func Ratio(num, den Series) Series {
	if num.IsEmpty() {
		return Series{}
	}
	return Series{X: den.X, Y: RatioValues(num.Y, den.Y)}
}

// RatioValues applies the Ratio rule to bare y sequences. Division by zero
// yields ±Inf or NaN.
func RatioValues(num, den []float64) []float64 {
	if len(num) == 0 {
		return []float64{}
	}
	out := make([]float64, len(den))
	if len(num) != len(den) {
		return out
	}
	for i := range den {
		out[i] = num[i] / den[i]
	}
	return out
}
