package transform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finance-etl/internal/extract"
	"github.com/dvloznov/finance-etl/internal/objstore"
	"github.com/dvloznov/finance-etl/internal/recordset"
)

// The full transform sequence over a freshly extracted CSV, checked for
// each record-set engine.
func TestTransformChainFromCSV(t *testing.T) {
	var b strings.Builder
	b.WriteString("Transaction ID,Date,Amount,Currency\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "TXN-%03d,2024-01-01,100.0,USD\n", i)
	}
	path := filepath.Join(t.TempDir(), "txns.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	for _, engine := range []recordset.Engine{recordset.EngineRows, recordset.EngineColumns} {
		t.Run(string(engine), func(t *testing.T) {
			ex := extract.New(objstore.NewMemory(), engine)
			tab, err := ex.Extract(context.Background(), extract.Source{Locator: path, Kind: extract.KindLocal})
			require.NoError(t, err)

			require.NoError(t, NormalizeSchema(tab))
			enr, err := Enrich(tab, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			FilterAndDedup(tab, enr)

			require.Equal(t,
				[]string{"transaction_id", "date", "amount", "currency", "processed_date", "year", "month"},
				tab.Columns())
			require.Equal(t, 10, tab.Len(), "ten distinct transaction IDs all survive")
			for r := 0; r < tab.Len(); r++ {
				require.Equal(t, recordset.Int(2024), tab.Value(r, "year"))
				require.Equal(t, recordset.Int(1), tab.Value(r, "month"))
				require.Equal(t, "2024-06-01", tab.Value(r, "processed_date").String())
				require.Equal(t, recordset.Num(100), tab.Value(r, "amount"))
			}
		})
	}
}
