// Package recordset holds tabular record sets in memory behind a single
// capability interface with interchangeable backing engines, so transform
// logic is written once regardless of how rows are stored.
package recordset

import "fmt"

// Engine selects the backing storage for a Table.
type Engine string

const (
	// EngineRows stores records row-major; the default for small runs.
	EngineRows Engine = "rows"
	// EngineColumns stores records column-major; better for wide tables
	// and large runs where whole-column operations dominate.
	EngineColumns Engine = "columns"
	// EngineAuto defers the choice to the caller's row-count hint.
	EngineAuto Engine = "auto"
)

// autoColumnarThreshold is the row-count hint at which EngineAuto switches
// from the row engine to the columnar engine.
const autoColumnarThreshold = 100_000

// Table is an ordered collection of uniformly-shaped records. All mutating
// operations preserve the invariant that every row has a value for every
// column.
type Table interface {
	// Columns returns the column names in order. Callers must not mutate
	// the returned slice.
	Columns() []string

	// Len returns the number of rows.
	Len() int

	// Value returns the cell at (row, col). Panics if row is out of range;
	// returns null for unknown columns.
	Value(row int, col string) Value

	// SetValue replaces the cell at (row, col). Unknown columns are an
	// error.
	SetValue(row int, col string, v Value) error

	// Append adds one row in column order.
	Append(row []Value) error

	// Rename replaces every column name with rename(name). The caller is
	// responsible for mapping distinct names to distinct results; a
	// collision is reported as an error.
	Rename(rename func(string) string) error

	// SetColumn adds a column filled per row by fill. If the column
	// already exists its values are replaced.
	SetColumn(name string, fill func(row int) Value)

	// Retain keeps only the rows for which keep returns true, preserving
	// relative order.
	Retain(keep func(row int) bool)

	// Row returns one row's values in column order. Callers must not
	// mutate the returned slice.
	Row(i int) []Value
}

// New creates an empty Table with the given columns on the chosen engine.
// The rowHint lets EngineAuto pick the columnar engine for large runs.
func New(engine Engine, columns []string, rowHint int) (Table, error) {
	switch engine {
	case EngineAuto:
		if rowHint >= autoColumnarThreshold {
			return NewColumnTable(columns)
		}
		return NewRowTable(columns)
	case EngineRows, "":
		return NewRowTable(columns)
	case EngineColumns:
		return NewColumnTable(columns)
	}
	return nil, fmt.Errorf("recordset: unknown engine %q", engine)
}

// ValidEngine reports whether s names a known engine.
func ValidEngine(s string) bool {
	switch Engine(s) {
	case EngineRows, EngineColumns, EngineAuto, "":
		return true
	}
	return false
}

func buildIndex(columns []string) (map[string]int, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("recordset: duplicate column %q", c)
		}
		index[c] = i
	}
	return index, nil
}

func renameAll(columns []string, rename func(string) string) ([]string, map[string]int, error) {
	renamed := make([]string, len(columns))
	for i, c := range columns {
		renamed[i] = rename(c)
	}
	index, err := buildIndex(renamed)
	if err != nil {
		return nil, nil, err
	}
	return renamed, index, nil
}
