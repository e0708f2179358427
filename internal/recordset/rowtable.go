package recordset

import "fmt"

// RowTable is the row-major Table engine.
type RowTable struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewRowTable creates an empty row-major table with the given columns.
func NewRowTable(columns []string) (*RowTable, error) {
	index, err := buildIndex(columns)
	if err != nil {
		return nil, err
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &RowTable{columns: cols, index: index}, nil
}

func (t *RowTable) Columns() []string { return t.columns }

func (t *RowTable) Len() int { return len(t.rows) }

func (t *RowTable) Value(row int, col string) Value {
	i, ok := t.index[col]
	if !ok {
		return Null()
	}
	return t.rows[row][i]
}

func (t *RowTable) SetValue(row int, col string, v Value) error {
	i, ok := t.index[col]
	if !ok {
		return fmt.Errorf("recordset: unknown column %q", col)
	}
	t.rows[row][i] = v
	return nil
}

func (t *RowTable) Append(row []Value) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("recordset: row has %d values, table has %d columns", len(row), len(t.columns))
	}
	r := make([]Value, len(row))
	copy(r, row)
	t.rows = append(t.rows, r)
	return nil
}

func (t *RowTable) Rename(rename func(string) string) error {
	renamed, index, err := renameAll(t.columns, rename)
	if err != nil {
		return err
	}
	t.columns = renamed
	t.index = index
	return nil
}

func (t *RowTable) SetColumn(name string, fill func(row int) Value) {
	if i, ok := t.index[name]; ok {
		for r := range t.rows {
			t.rows[r][i] = fill(r)
		}
		return
	}
	t.columns = append(t.columns, name)
	t.index[name] = len(t.columns) - 1
	for r := range t.rows {
		t.rows[r] = append(t.rows[r], fill(r))
	}
}

func (t *RowTable) Retain(keep func(row int) bool) {
	kept := t.rows[:0]
	for r, row := range t.rows {
		if keep(r) {
			kept = append(kept, row)
		}
	}
	t.rows = kept
}

func (t *RowTable) Row(i int) []Value { return t.rows[i] }
