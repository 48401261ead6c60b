package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a single cell. Num is only meaningful when IsNum is true.
type Value struct {
	Raw     string
	Num     float64
	IsNum   bool
	Missing bool
}

// String returns the raw cell text.
func (v Value) String() string { return v.Raw }

// Table is an immutable, column-projected view of a flat file.
// All rows carry exactly one Value per column.
type Table struct {
	name       string
	columns    []string
	index      map[string]int
	rows       [][]Value
	sourceRows int
}

// Name is the base name of the source the table was loaded from.
func (t *Table) Name() string { return t.name }

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows held in memory.
func (t *Table) Len() int { return len(t.rows) }

// SourceRows is the number of data rows seen in the source, which exceeds Len
// when loading stopped at Options.MaxRows.
func (t *Table) SourceRows() int { return t.sourceRows }

// Has reports whether the table carries the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) ([]Value, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, &DataError{Reason: ReasonMissingColumn, Path: t.name, Column: name}
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Row returns row i keyed by column name.
func (t *Table) Row(i int) map[string]Value {
	out := make(map[string]Value, len(t.columns))
	for j, c := range t.columns {
		out[c] = t.rows[i][j]
	}
	return out
}

// Records returns the first n rows as raw strings in column order; n <= 0 means all.
func (t *Table) Records(n int) [][]string {
	if n <= 0 || n > len(t.rows) {
		n = len(t.rows)
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		rec := make([]string, len(t.columns))
		for j, v := range t.rows[i] {
			rec[j] = v.Raw
		}
		out[i] = rec
	}
	return out
}

// Select projects the table onto columns, in the given order.
func (t *Table) Select(columns ...string) (*Table, error) {
	idxs := make([]int, len(columns))
	for i, c := range columns {
		idx, ok := t.index[c]
		if !ok {
			return nil, &DataError{Reason: ReasonMissingColumn, Path: t.name, Column: c}
		}
		idxs[i] = idx
	}
	rows := make([][]Value, len(t.rows))
	for i, r := range t.rows {
		nr := make([]Value, len(idxs))
		for j, idx := range idxs {
			nr[j] = r[idx]
		}
		rows[i] = nr
	}
	return newTable(t.name, columns, rows, t.sourceRows)
}

// Head returns a table restricted to the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return &Table{name: t.name, columns: t.columns, index: t.index, rows: t.rows[:n:n], sourceRows: t.sourceRows}
}

// FromRecords builds a table from in-memory rows keyed by column name.
// Every record must carry every column.
func FromRecords(name string, columns []string, records []map[string]string) (*Table, error) {
	opt := DefaultOptions()
	rows := make([][]Value, len(records))
	for i, rec := range records {
		r := make([]Value, len(columns))
		for j, c := range columns {
			raw, ok := rec[c]
			if !ok {
				return nil, &DataError{Reason: ReasonMalformed, Path: name, Column: c, Detail: fmt.Sprintf("record %d has no value", i+1)}
			}
			r[j] = parseValue(raw, opt)
		}
		rows[i] = r
	}
	return newTable(name, columns, rows, len(rows))
}

func newTable(name string, columns []string, rows [][]Value, sourceRows int) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, &DataError{Reason: ReasonMalformed, Path: name, Column: c, Detail: "duplicate column"}
		}
		index[c] = i
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{name: name, columns: cols, index: index, rows: rows, sourceRows: sourceRows}, nil
}

func parseValue(raw string, opt Options) Value {
	s := strings.TrimSpace(raw)
	v := Value{Raw: s}
	if s == "" {
		v.Missing = true
		return v
	}
	for _, m := range opt.MissingMarkers {
		if s == m {
			v.Missing = true
			return v
		}
	}
	if x, ok := parseNumeric(s, opt); ok {
		v.Num = x
		v.IsNum = true
	}
	return v
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	if thou := opt.ThousandsSeparator; thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
