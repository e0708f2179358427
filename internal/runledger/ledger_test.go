package runledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerSuccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	run := Run{ID: "r1", Source: "data.csv", Destination: "gs://out", StartedAt: time.Now()}
	require.NoError(t, m.Start(ctx, run))

	e := m.Entry("r1")
	require.NotNil(t, e)
	require.Equal(t, StatusRunning, e.Status)

	require.NoError(t, m.Succeed(ctx, "r1", "gs://out/processed_data/date=x/", 10))
	e = m.Entry("r1")
	require.Equal(t, StatusSuccess, e.Status)
	require.Equal(t, 10, e.Rows)
	require.Equal(t, "gs://out/processed_data/date=x/", e.Location)
}

func TestMemoryLedgerFail(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Start(ctx, Run{ID: "r2", Source: "data.csv"}))
	m.Fail(ctx, "r2", "extract", errors.New("source has no records"))

	e := m.Entry("r2")
	require.Equal(t, StatusFailed, e.Status)
	require.Equal(t, "extract", e.Stage)
	require.Contains(t, e.Error, "no records")
}

func TestMemoryLedgerUnknownRun(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Succeed(ctx, "missing", "loc", 1))
	m.Fail(ctx, "missing", "load", errors.New("x"))
	require.Nil(t, m.Entry("missing"))
}
