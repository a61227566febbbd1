package survey

import (
	"fmt"
	"math"
)

// RawUpload is one file as delivered by the browser or the CLI.
type RawUpload struct {
	Filename string
	Content  []byte
}

// Column is a named numeric column. Missing cells hold NaN.
type Column struct {
	Name   string    `json:"name"`
	Values []float64 `json:"-"`
}

// Missing is the cell value used for absent or non-numeric input.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a cell holds the missing marker
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Len returns the number of rows, present or missing
func (c Column) Len() int { return len(c.Values) }

// Valid returns the present values in row order
func (c Column) Valid() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// MissingCount returns how many cells are missing
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

// Table is an ordered set of equal-length numeric columns.
type Table struct {
	Columns []Column `json:"columns"`
}

// NewTable validates that all columns share one length
func NewTable(columns []Column) (*Table, error) {
	for i := 1; i < len(columns); i++ {
		if columns[i].Len() != columns[0].Len() {
			return nil, fmt.Errorf("column %q has %d rows, expected %d",
				columns[i].Name, columns[i].Len(), columns[0].Len())
		}
	}
	return &Table{Columns: columns}, nil
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Names returns column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Row returns row i across all columns
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Values[i]
	}
	return row
}

// FilledTable is a Table whose missing cells were replaced by the column mean.
// It only feeds variance and average computations.
type FilledTable struct {
	Table
}
