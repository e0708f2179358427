package transform

import (
	"github.com/dvloznov/finance-etl/internal/recordset"
)

// FilterAndDedup applies the quality filter and exact-duplicate removal in
// place. When the enricher identified an amount-bearing column, rows whose
// first amount value was null before enrichment are dropped. Duplicates —
// rows equal in every column, null equal to null — collapse to the first
// occurrence, preserving relative order.
func FilterAndDedup(t recordset.Table, enr *Enrichment) {
	if len(enr.AmountColumns) > 0 {
		t.Retain(func(r int) bool { return !enr.nullAmount[r] })
	}

	seen := make(map[string]struct{}, t.Len())
	t.Retain(func(r int) bool {
		key := recordset.RowKey(t.Row(r))
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}
