// Package table holds an in-memory tabular dataset: named columns and
// ordered rows of arbitrary values.
package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ErrRowWidth is returned when a row does not have one value per column.
var ErrRowWidth = errors.New("row width does not match column count")

// Table is a dataset with named columns. Row order is preserved.
type Table struct {
	columns []string
	rows    [][]any
}

// New creates an empty table with the given column names.
func New(columns ...string) *Table {
	return &Table{columns: append([]string(nil), columns...)}
}

// AddRow appends a row. values must have one entry per column.
func (t *Table) AddRow(values ...any) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: got %d values for %d columns", ErrRowWidth, len(values), len(t.columns))
	}
	t.rows = append(t.rows, append([]any(nil), values...))
	return nil
}

// Columns returns a copy of the column names.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []any {
	return append([]any(nil), t.rows[i]...)
}

// Records returns every row with values stringified by FormatValue.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = FormatValue(v)
		}
		out[i] = rec
	}
	return out
}

// FormatValue is the default cell stringification used on export. nil and
// NaN both become an empty field.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", x)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		if math.IsNaN(float64(x)) {
			return ""
		}
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	default:
		return fmt.Sprint(x)
	}
}
