package load

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finance-etl/internal/objstore"
	"github.com/dvloznov/finance-etl/internal/recordset"
)

var capture = time.Date(2024, 6, 1, 14, 30, 45, 0, time.UTC)

func TestPlanPath(t *testing.T) {
	plan := PlanPath("out-bucket", "processed_data", capture, "")
	require.Equal(t, "out-bucket", plan.Bucket)
	require.Equal(t, "processed_data/date=20240601_143045/", plan.Key)
	require.Equal(t, "gs://out-bucket/processed_data/date=20240601_143045/", plan.Location())
}

func TestPlanPathRunSuffix(t *testing.T) {
	plan := PlanPath("out-bucket", "processed_data", capture, "abc123")
	require.Equal(t, "processed_data/date=20240601_143045_abc123/", plan.Key)
}

func sampleTable(t *testing.T) recordset.Table {
	t.Helper()
	tab, err := recordset.NewRowTable([]string{"transaction_id", "date", "amount", "year"})
	require.NoError(t, err)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tab.Append([]recordset.Value{
		recordset.Str("TXN-000"), recordset.Date(day), recordset.Num(100), recordset.Int(2024),
	}))
	require.NoError(t, tab.Append([]recordset.Value{
		recordset.Str("TXN-001"), recordset.Null(), recordset.Null(), recordset.Null(),
	}))
	return tab
}

func TestWriterWrite(t *testing.T) {
	ctx := context.Background()
	store := objstore.NewMemory()
	plan := PlanPath("out", "processed_data", capture, "")

	location, rows, err := NewWriter(store).Write(ctx, sampleTable(t), plan)
	require.NoError(t, err)
	require.Equal(t, "gs://out/processed_data/date=20240601_143045/", location)
	require.Equal(t, 2, rows)

	data, err := store.Get(ctx, "out", plan.Key+PartObjectName)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	require.Equal(t, "PAR1", string(data[:4]), "parquet magic header")
	require.Equal(t, "PAR1", string(data[len(data)-4:]), "parquet magic footer")
}

func TestWriterOverwritesPartition(t *testing.T) {
	ctx := context.Background()
	store := objstore.NewMemory()
	plan := PlanPath("out", "processed_data", capture, "")

	// A leftover object from a prior run at the same timestamp.
	stale := plan.Key + "part-00001.parquet"
	require.NoError(t, store.Put(ctx, "out", stale, []byte("old")))

	_, _, err := NewWriter(store).Write(ctx, sampleTable(t), plan)
	require.NoError(t, err)

	keys, err := store.List(ctx, "out", plan.Key)
	require.NoError(t, err)
	require.Equal(t, []string{plan.Key + PartObjectName}, keys, "prior partition contents are replaced")
}

func TestWriterLoadError(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Memory: objstore.NewMemory()}
	plan := PlanPath("out", "processed_data", capture, "")

	_, _, err := NewWriter(fs).Write(ctx, sampleTable(t), plan)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	require.Equal(t, plan.Location(), loadErr.Location)
}

// failingStore forces Put failures to exercise the LoadError path.
type failingStore struct {
	*objstore.Memory
}

func (s *failingStore) Put(context.Context, string, string, []byte) error {
	return context.DeadlineExceeded
}
