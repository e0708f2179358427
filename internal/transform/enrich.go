package transform

import (
	"strings"
	"time"

	"github.com/dvloznov/finance-etl/internal/recordset"
)

// ProcessedDateColumn is the processing-metadata column added to every
// record set.
const ProcessedDateColumn = "processed_date"

// Partition-derivation columns, present when the record set has both a
// date-bearing and an amount-bearing column.
const (
	YearColumn  = "year"
	MonthColumn = "month"
)

// Enrichment describes what the enricher found; the quality filter consumes
// it so both stages agree on which columns bear dates and amounts.
type Enrichment struct {
	// DateColumns are the date-bearing columns, in column order,
	// identified before any column was added.
	DateColumns []string
	// AmountColumns are the amount-bearing columns, in column order.
	AmountColumns []string

	// nullAmount marks the rows whose first amount-bearing value was null
	// before any coercion ran.
	nullAmount []bool
}

// Enrich adds processing metadata and partition-derivation columns in
// place. It never removes rows:
//
//  1. Every value of a date-bearing column (name contains "date") is
//     parsed as a YYYY-MM-DD calendar date; values that do not parse
//     become null.
//  2. The processed_date column is added with captureDate when absent;
//     when present only its null entries are filled.
//  3. When at least one amount-bearing column (name contains "amount" or
//     "value") and one date-bearing column exist, integer year and month
//     columns are derived from the first date-bearing column.
func Enrich(t recordset.Table, captureDate time.Time) (*Enrichment, error) {
	enr := &Enrichment{}
	for _, c := range t.Columns() {
		if strings.Contains(c, "date") {
			enr.DateColumns = append(enr.DateColumns, c)
		}
		if strings.Contains(c, "amount") || strings.Contains(c, "value") {
			enr.AmountColumns = append(enr.AmountColumns, c)
		}
	}

	// The quality filter checks the pre-enrichment nulls of the first
	// amount column, so capture them before any coercion.
	if len(enr.AmountColumns) > 0 {
		first := enr.AmountColumns[0]
		enr.nullAmount = make([]bool, t.Len())
		for r := 0; r < t.Len(); r++ {
			enr.nullAmount[r] = t.Value(r, first).IsNull()
		}
	}

	for _, c := range enr.DateColumns {
		if err := coerceDates(t, c); err != nil {
			return nil, err
		}
	}

	capture := recordset.Date(captureDate)
	if hasColumn(t, ProcessedDateColumn) {
		for r := 0; r < t.Len(); r++ {
			if t.Value(r, ProcessedDateColumn).IsNull() {
				if err := t.SetValue(r, ProcessedDateColumn, capture); err != nil {
					return nil, err
				}
			}
		}
	} else {
		t.SetColumn(ProcessedDateColumn, func(int) recordset.Value { return capture })
	}

	if len(enr.AmountColumns) > 0 && len(enr.DateColumns) > 0 {
		first := enr.DateColumns[0]
		t.SetColumn(YearColumn, func(r int) recordset.Value {
			if v := t.Value(r, first); v.Kind() == recordset.KindDate {
				return recordset.Int(int64(v.Time().Year()))
			}
			return recordset.Null()
		})
		t.SetColumn(MonthColumn, func(r int) recordset.Value {
			if v := t.Value(r, first); v.Kind() == recordset.KindDate {
				return recordset.Int(int64(v.Time().Month()))
			}
			return recordset.Null()
		})
	}

	return enr, nil
}

// coerceDates parses every value of the column as a YYYY-MM-DD date.
// Failures are per-value nulls, not errors.
func coerceDates(t recordset.Table, col string) error {
	for r := 0; r < t.Len(); r++ {
		v := t.Value(r, col)
		var coerced recordset.Value
		switch v.Kind() {
		case recordset.KindDate:
			continue
		case recordset.KindString:
			if parsed, err := time.Parse(recordset.DateLayout, v.Text()); err == nil {
				coerced = recordset.Date(parsed)
			} else {
				coerced = recordset.Null()
			}
		default:
			// Numbers and nulls carry no parseable calendar date.
			coerced = recordset.Null()
		}
		if err := t.SetValue(r, col, coerced); err != nil {
			return &TransformError{Column: col, Row: r, Err: err}
		}
	}
	return nil
}

func hasColumn(t recordset.Table, name string) bool {
	for _, c := range t.Columns() {
		if c == name {
			return true
		}
	}
	return false
}
