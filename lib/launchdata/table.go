package launchdata

import (
	"encoding/json"
	"fmt"
	"sort"

	"launchboard/lib/flatten"
)

// Table is an ordered set of flattened rows sharing the union of their
// columns. A row that never produced a column simply lacks the key, Get
// reports it as nil.
type Table struct {
	Columns []string
	Rows    []flatten.Row
}

func (t Table) Len() int {
	return len(t.Rows)
}

func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Get returns the cell at `column` in `row`, nil when absent.
func Get(row flatten.Row, column string) any {
	return row[column]
}

// Column returns every value of `column` in row order.
func (t Table) Column(name string) []any {
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out
}

// Filter keeps the rows matching `keep`, columns are left untouched.
func (t Table) Filter(keep func(flatten.Row) bool) Table {
	out := Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Where keeps the rows whose `column` equals `value`.
func (t Table) Where(column string, value any) Table {
	return t.Filter(func(row flatten.Row) bool {
		return row[column] == value
	})
}

// Select projects the table onto `columns`, in the given order.
func (t Table) Select(columns ...string) Table {
	out := Table{
		Columns: columns,
		Rows:    make([]flatten.Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		projected := flatten.Row{}
		for _, c := range columns {
			v, ok := row[c]
			if ok {
				projected[c] = v
			}
		}
		out.Rows[i] = projected
	}
	return out
}

// Unique returns the distinct non-nil values of `column` formatted as
// strings, sorted.
func (t Table) Unique(column string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, row := range t.Rows {
		v := row[column]
		if v == nil {
			continue
		}
		s := FormatValue(v)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Derive adds (or replaces) `column`, computed from each row.
func (t *Table) Derive(column string, compute func(flatten.Row) any) {
	if !t.HasColumn(column) {
		t.Columns = append(t.Columns, column)
	}
	for _, row := range t.Rows {
		row[column] = compute(row)
	}
}

// FormatValue renders a cell for display and grouping. Whole floats print
// without a fractional part, nil prints as an empty string and sequences
// print as JSON.
func FormatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%g", value)
	case []any, map[string]any:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(encoded)
	default:
		return fmt.Sprint(value)
	}
}
