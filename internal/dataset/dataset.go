// Package dataset holds the in-memory tabular model shared by the loaders and
// the matching engine. A Dataset keeps its original column order and cell
// values as strings; a blank cell is a missing value.
package dataset

import (
	"fmt"
)

// Dataset is one loaded table: named columns in file order plus row cells
// addressed by column name. Row index is the stable identity used to key
// match results back onto the table.
type Dataset struct {
	Name    string
	Columns []string
	Rows    []map[string]string
}

// New builds a dataset from loader output, recording column order from the
// first row map via the supplied header slice.
func New(name string, columns []string, rows []map[string]string) *Dataset {
	return &Dataset{Name: name, Columns: columns, Rows: rows}
}

// Len returns the number of data rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Cell returns the value at (row, column); missing cells are "".
func (d *Dataset) Cell(row int, column string) string {
	if row < 0 || row >= len(d.Rows) {
		return ""
	}
	return d.Rows[row][column]
}

// Apply rewrites one column in place through fn, row by row. Together with
// ApplyPair it is the only sanctioned mutation of a loaded dataset besides
// claim bookkeeping in the engine.
func (d *Dataset) Apply(column string, fn func(string) string) error {
	if !d.HasColumn(column) {
		return fmt.Errorf("dataset %s: no column %q", d.Name, column)
	}
	for _, row := range d.Rows {
		row[column] = fn(row[column])
	}
	return nil
}

// ApplyPair rewrites two columns in place through fn, which sees both values
// of a row at once. Used for coordinate pairs that normalize together.
func (d *Dataset) ApplyPair(colA, colB string, fn func(a, b string) (string, string)) error {
	if !d.HasColumn(colA) {
		return fmt.Errorf("dataset %s: no column %q", d.Name, colA)
	}
	if !d.HasColumn(colB) {
		return fmt.Errorf("dataset %s: no column %q", d.Name, colB)
	}
	for _, row := range d.Rows {
		row[colA], row[colB] = fn(row[colA], row[colB])
	}
	return nil
}

// Column returns all values of one column in row order.
func (d *Dataset) Column(name string) []string {
	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[name]
	}
	return out
}
