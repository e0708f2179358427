package recordset

import "fmt"

// ColumnTable is the column-major Table engine. It keeps one value slice
// per column, which makes whole-column operations (date coercion, derived
// columns) cache-friendly on wide or large record sets.
type ColumnTable struct {
	columns []string
	index   map[string]int
	cols    [][]Value
	length  int
}

// NewColumnTable creates an empty column-major table with the given columns.
func NewColumnTable(columns []string) (*ColumnTable, error) {
	index, err := buildIndex(columns)
	if err != nil {
		return nil, err
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &ColumnTable{
		columns: cols,
		index:   index,
		cols:    make([][]Value, len(columns)),
	}, nil
}

func (t *ColumnTable) Columns() []string { return t.columns }

func (t *ColumnTable) Len() int { return t.length }

func (t *ColumnTable) Value(row int, col string) Value {
	i, ok := t.index[col]
	if !ok {
		return Null()
	}
	if row < 0 || row >= t.length {
		panic(fmt.Sprintf("recordset: row %d out of range [0,%d)", row, t.length))
	}
	return t.cols[i][row]
}

func (t *ColumnTable) SetValue(row int, col string, v Value) error {
	i, ok := t.index[col]
	if !ok {
		return fmt.Errorf("recordset: unknown column %q", col)
	}
	t.cols[i][row] = v
	return nil
}

func (t *ColumnTable) Append(row []Value) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("recordset: row has %d values, table has %d columns", len(row), len(t.columns))
	}
	for i, v := range row {
		t.cols[i] = append(t.cols[i], v)
	}
	t.length++
	return nil
}

func (t *ColumnTable) Rename(rename func(string) string) error {
	renamed, index, err := renameAll(t.columns, rename)
	if err != nil {
		return err
	}
	t.columns = renamed
	t.index = index
	return nil
}

func (t *ColumnTable) SetColumn(name string, fill func(row int) Value) {
	if i, ok := t.index[name]; ok {
		for r := 0; r < t.length; r++ {
			t.cols[i][r] = fill(r)
		}
		return
	}
	col := make([]Value, t.length)
	for r := range col {
		col[r] = fill(r)
	}
	t.columns = append(t.columns, name)
	t.index[name] = len(t.columns) - 1
	t.cols = append(t.cols, col)
}

func (t *ColumnTable) Retain(keep func(row int) bool) {
	kept := make([]bool, t.length)
	n := 0
	for r := 0; r < t.length; r++ {
		if keep(r) {
			kept[r] = true
			n++
		}
	}
	for i := range t.cols {
		out := t.cols[i][:0]
		for r, v := range t.cols[i] {
			if kept[r] {
				out = append(out, v)
			}
		}
		t.cols[i] = out
	}
	t.length = n
}

func (t *ColumnTable) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for c := range t.cols {
		row[c] = t.cols[c][i]
	}
	return row
}
