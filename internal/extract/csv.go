package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/dvloznov/finance-etl/internal/recordset"
)

// parseCSV reads CSV bytes; the first row is the header. Every record must
// match the header width.
func parseCSV(data []byte, engine recordset.Engine) (recordset.Table, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("source has no records")
	}

	header := records[0]
	rows := records[1:]

	tab, err := recordset.New(engine, header, len(rows))
	if err != nil {
		return nil, fmt.Errorf("malformed header: %w", err)
	}

	row := make([]recordset.Value, len(header))
	for _, rec := range rows {
		for i, raw := range rec {
			row[i] = inferValue(raw)
		}
		if err := tab.Append(row); err != nil {
			return nil, err
		}
	}
	return tab, nil
}
