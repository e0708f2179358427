package recordset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// engines runs a subtest against each Table engine.
func engines(t *testing.T, cols []string, fn func(t *testing.T, tab Table)) {
	t.Helper()
	for name, build := range map[string]func([]string) (Table, error){
		"rows":    func(c []string) (Table, error) { return NewRowTable(c) },
		"columns": func(c []string) (Table, error) { return NewColumnTable(c) },
	} {
		t.Run(name, func(t *testing.T) {
			tab, err := build(cols)
			require.NoError(t, err)
			fn(t, tab)
		})
	}
}

func TestTableAppendAndValue(t *testing.T) {
	engines(t, []string{"id", "amount"}, func(t *testing.T, tab Table) {
		require.NoError(t, tab.Append([]Value{Str("a"), Num(1.5)}))
		require.NoError(t, tab.Append([]Value{Str("b"), Null()}))

		require.Equal(t, 2, tab.Len())
		require.Equal(t, Str("a"), tab.Value(0, "id"))
		require.Equal(t, Num(1.5), tab.Value(0, "amount"))
		require.True(t, tab.Value(1, "amount").IsNull())

		// Row width must match the column set.
		require.Error(t, tab.Append([]Value{Str("c")}))
	})
}

func TestTableRename(t *testing.T) {
	engines(t, []string{"Txn ID", "Amount"}, func(t *testing.T, tab Table) {
		require.NoError(t, tab.Append([]Value{Str("a"), Num(1)}))
		require.NoError(t, tab.Rename(strings.ToLower))
		require.Equal(t, []string{"txn id", "amount"}, tab.Columns())
		require.Equal(t, Str("a"), tab.Value(0, "txn id"))
	})
}

func TestTableRenameCollision(t *testing.T) {
	engines(t, []string{"a", "A"}, func(t *testing.T, tab Table) {
		require.Error(t, tab.Rename(strings.ToLower))
	})
}

func TestTableSetColumn(t *testing.T) {
	engines(t, []string{"id"}, func(t *testing.T, tab Table) {
		require.NoError(t, tab.Append([]Value{Str("a")}))
		require.NoError(t, tab.Append([]Value{Str("b")}))

		tab.SetColumn("year", func(int) Value { return Int(2024) })
		require.Equal(t, []string{"id", "year"}, tab.Columns())
		require.Equal(t, Int(2024), tab.Value(1, "year"))

		// Existing column is overwritten, not duplicated.
		tab.SetColumn("year", func(int) Value { return Int(2025) })
		require.Equal(t, []string{"id", "year"}, tab.Columns())
		require.Equal(t, Int(2025), tab.Value(0, "year"))
	})
}

func TestTableRetain(t *testing.T) {
	engines(t, []string{"id"}, func(t *testing.T, tab Table) {
		for _, id := range []string{"a", "b", "c", "d"} {
			require.NoError(t, tab.Append([]Value{Str(id)}))
		}
		tab.Retain(func(row int) bool { return row%2 == 0 })
		require.Equal(t, 2, tab.Len())
		require.Equal(t, Str("a"), tab.Value(0, "id"))
		require.Equal(t, Str("c"), tab.Value(1, "id"))
	})
}

func TestTableRow(t *testing.T) {
	engines(t, []string{"id", "n"}, func(t *testing.T, tab Table) {
		require.NoError(t, tab.Append([]Value{Str("a"), Int(1)}))
		require.Equal(t, []Value{Str("a"), Int(1)}, tab.Row(0))
	})
}

func TestNewEngineSelection(t *testing.T) {
	tab, err := New(EngineAuto, []string{"a"}, 10)
	require.NoError(t, err)
	require.IsType(t, &RowTable{}, tab)

	tab, err = New(EngineAuto, []string{"a"}, autoColumnarThreshold)
	require.NoError(t, err)
	require.IsType(t, &ColumnTable{}, tab)

	tab, err = New(EngineColumns, []string{"a"}, 0)
	require.NoError(t, err)
	require.IsType(t, &ColumnTable{}, tab)

	_, err = New(Engine("spark"), []string{"a"}, 0)
	require.Error(t, err)
}

func TestValueEqual(t *testing.T) {
	day := time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)
	require.True(t, Null().Equal(Null()))
	require.True(t, Date(day).Equal(Date(day.Add(2*time.Hour))), "dates compare at day precision")
	require.False(t, Str("1").Equal(Num(1)))
	require.False(t, Num(1).Equal(Int(1)))
}

func TestRowKey(t *testing.T) {
	a := RowKey([]Value{Str("x"), Null(), Num(2)})
	b := RowKey([]Value{Str("x"), Null(), Num(2)})
	require.Equal(t, a, b)

	// Length-prefixed strings keep adjacent cells from bleeding together.
	require.NotEqual(t,
		RowKey([]Value{Str("ab"), Str("c")}),
		RowKey([]Value{Str("a"), Str("bc")}),
	)
	require.NotEqual(t, RowKey([]Value{Null()}), RowKey([]Value{Str("")}))
}
