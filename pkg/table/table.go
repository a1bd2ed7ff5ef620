package table

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Value is a single cell. After normalization its dynamic type is one of
// nil, string, bool, int64 or float64. Whole numbers that fit in an int64
// are always int64, so the same number compares equal whichever reader
// produced it.
type Value = any

// Row maps column name to cell value.
type Row map[string]Value

// Construction errors.
var (
	ErrUnsupportedValue = errors.New("unsupported cell value")
	ErrUnknownColumn    = errors.New("row has column outside the table's column set")
	ErrDuplicateColumn  = errors.New("duplicate column name")
	ErrEmptyColumnName  = errors.New("empty column name")
)

// Table is an immutable ordered sequence of rows sharing one column set.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New builds a Table from a column list and rows.
// Keys missing from a row are filled with nil. The rows slice is copied, but
// New takes ownership of the row maps: values are normalized in place and
// the caller must not modify the maps afterwards.
func New(columns []string, rows []Row) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("column %d: %w", i+1, ErrEmptyColumnName)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		index[c] = i
	}

	rows = append([]Row(nil), rows...)
	for i, row := range rows {
		if row == nil {
			row = make(Row, len(columns))
			rows[i] = row
		}
		for k, v := range row {
			if _, ok := index[k]; !ok {
				return nil, fmt.Errorf("row %d: %w: %q", i+1, ErrUnknownColumn, k)
			}
			switch x := v.(type) {
			case nil, string, bool, int64:
				// already normalized; leave shared rows untouched
				continue
			case float64:
				if _, whole := wholeInt(x); !whole {
					continue
				}
			}
			nv, err := Normalize(v)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i+1, k, err)
			}
			row[k] = nv
		}
		for _, c := range columns {
			if _, ok := row[c]; !ok {
				row[c] = nil
			}
		}
	}

	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    rows,
	}, nil
}

// MustNew is New that panics on error. Intended for tests and literals.
func MustNew(columns []string, rows ...Row) *Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns the table's column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the rows in order. Callers must not mutate them.
func (t *Table) Rows() []Row { return t.rows }

// Row returns the i-th row.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Merge returns the union of a and b; a's value wins on a key collision.
func Merge(a, b Row) Row {
	out := make(Row, len(a)+len(b))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range a {
		out[k] = v
	}
	return out
}

// DefaultRow returns a row holding v for every column.
func DefaultRow(columns []string, v Value) Row {
	out := make(Row, len(columns))
	for _, c := range columns {
		out[c] = v
	}
	return out
}

// UnionColumns returns a's columns followed by b's columns not in a.
func UnionColumns(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, cols := range [][]string{a, b} {
		for _, c := range cols {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Normalize converts a reader-produced value to one of the Value types.
func Normalize(v any) (Value, error) {
	switch x := v.(type) {
	case nil, string, bool, int64:
		return x, nil
	case float64:
		return normalizeFloat(x), nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return strconv.FormatUint(uint64(x), 10), nil
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return strconv.FormatUint(x, 10), nil
		}
		return int64(x), nil
	case float32:
		return normalizeFloat(float64(x)), nil
	case []byte:
		return string(x), nil
	case time.Time:
		return x.Format(time.RFC3339), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedValue, reflect.TypeOf(v))
}

func normalizeFloat(f float64) Value {
	if n, whole := wholeInt(f); whole {
		return n
	}
	return f
}

// wholeInt reports whether f is an integer inside the int64 range.
func wholeInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// FormatValue renders a cell as text. nil renders as the empty string.
func FormatValue(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprintf("%v", v)
}
