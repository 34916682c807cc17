package bench

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
)

// Cond requires a column to equal a value.
type Cond struct {
	Column string
	Value  interface{}
}

// Query is a list of conditions that must all hold.
type Query []Cond

// Where builds a Query from alternating column names and values, e.g.
//
//	Where("list", "skiplistlock-bundle", "wrk_threads", 8)
func Where(pairs ...interface{}) Query {
	if len(pairs)%2 != 0 {
		panic("bench.Where: odd number of arguments")
	}
	q := make(Query, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		col, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("bench.Where: column name %v is not a string", pairs[i]))
		}
		q = append(q, Cond{Column: col, Value: pairs[i+1]})
	}
	return q
}

// And returns a new Query with the conditions of q followed by more.
func (q Query) And(more ...Cond) Query {
	nq := make(Query, 0, len(q)+len(more))
	return append(append(nq, q...), more...)
}

func (q Query) String() string {
	parts := make([]string, len(q))
	for i, c := range q {
		parts[i] = fmt.Sprintf("%s=%v", c.Column, c.Value)
	}
	return strings.Join(parts, ",")
}

// ParseQuery parses a comma separated list of column=value pairs.
// Values stay strings and are converted to the column type by Filter.
func ParseQuery(s string) (Query, error) {
	var q Query
	if strings.TrimSpace(s) == "" {
		return q, nil
	}
	for _, kv := range strings.Split(s, ",") {
		eq := strings.IndexByte(kv, '=')
		if eq <= 0 {
			return nil, errors.Errorf("invalid condition %q, want column=value", kv)
		}
		q = append(q, Cond{Column: strings.TrimSpace(kv[:eq]), Value: strings.TrimSpace(kv[eq+1:])})
	}
	return q, nil
}

// coerceValue converts v to the element type of col so it can be compared
// with the column's cells. ok is false if v can't equal any cell.
func coerceValue(col table.Slice, v interface{}) (cv interface{}, ok bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch col.(type) {
	case []int:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return int(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return int(rv.Uint()), true
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if f != math.Trunc(f) || math.IsInf(f, 0) {
				return nil, false
			}
			return int(f), true
		case reflect.String:
			n, err := strconv.ParseInt(strings.TrimSpace(rv.String()), 10, 0)
			if err != nil {
				return nil, false
			}
			return int(n), true
		}
		return nil, false

	case []float64:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), true
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(rv.Uint()), true
		case reflect.Float32, reflect.Float64:
			return rv.Float(), true
		case reflect.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
			if err != nil {
				return nil, false
			}
			return f, true
		}
		return nil, false

	case []string:
		if rv.Kind() == reflect.String {
			return rv.String(), true
		}
		return fmt.Sprint(v), true
	}
	return v, true
}
