// internal/domain/entity/table.go
package entity

import "strings"

// Table is a parsed CSV dataset: a header plus rows of string cells.
// Tables are never modified in place; every operation returns a new Table
// that may share row slices with its source.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTable builds a table, padding short rows with blanks.
func NewTable(columns []string, rows [][]string) *Table {
	for i, row := range rows {
		if len(row) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, row)
			rows[i] = padded
		}
	}
	return &Table{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of an exactly named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// LookupColumn finds a column by name. An exact match wins; otherwise names
// are compared ignoring case, spaces and underscores so that
// "ConditionDepartureCities" also finds "Condition Departure Cities".
func (t *Table) LookupColumn(name string) int {
	if idx := t.ColumnIndex(name); idx >= 0 {
		return idx
	}
	want := normalizeColumnName(name)
	for i, c := range t.Columns {
		if normalizeColumnName(c) == want {
			return i
		}
	}
	return -1
}

// HasColumn reports whether LookupColumn would find name.
func (t *Table) HasColumn(name string) bool {
	return t.LookupColumn(name) >= 0
}

// Where returns the rows for which keep returns true.
func (t *Table) Where(keep func(row []string) bool) *Table {
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return &Table{Columns: t.Columns, Rows: rows}
}

// Select projects the table onto the given columns in the given order.
// Unknown and repeated names are skipped.
func (t *Table) Select(columns []string) *Table {
	idx := make([]int, 0, len(columns))
	names := make([]string, 0, len(columns))
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			continue
		}
		i := t.ColumnIndex(c)
		if i < 0 {
			continue
		}
		seen[c] = struct{}{}
		idx = append(idx, i)
		names = append(names, c)
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		out := make([]string, len(idx))
		for j, i := range idx {
			out[j] = row[i]
		}
		rows[r] = out
	}
	return &Table{Columns: names, Rows: rows}
}

// Head returns the first n rows. n <= 0 means all rows.
func (t *Table) Head(n int) *Table {
	if n <= 0 || n >= len(t.Rows) {
		return &Table{Columns: t.Columns, Rows: t.Rows}
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// IsBlank reports whether a cell counts as missing. Only the empty string is
// blank; text such as "NA" or "null" is a value.
func IsBlank(value string) bool {
	return value == ""
}

func normalizeColumnName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == ' ' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
