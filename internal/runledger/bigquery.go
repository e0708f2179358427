package runledger

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
)

// runRow is the BigQuery schema of one ledger row.
type runRow struct {
	RunID       string                 `bigquery:"run_id"`
	Source      string                 `bigquery:"source"`
	Destination string                 `bigquery:"destination"`
	Status      string                 `bigquery:"status"`
	Stage       string                 `bigquery:"stage"`
	ErrorMsg    string                 `bigquery:"error_message"`
	RowsWritten bigquery.NullInt64     `bigquery:"rows_written"`
	Location    string                 `bigquery:"output_location"`
	StartedAt   time.Time              `bigquery:"started_ts"`
	FinishedAt  bigquery.NullTimestamp `bigquery:"finished_ts"`
}

// maxErrorLen caps stored error messages.
const maxErrorLen = 2000

// BigQuery is the Ledger implementation backed by a BigQuery table.
type BigQuery struct {
	client  *bigquery.Client
	dataset string
	table   string
}

// NewBigQuery connects a ledger to <project>.<dataset>.<table>.
func NewBigQuery(ctx context.Context, project, dataset, table string) (*BigQuery, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("runledger: bigquery client: %w", err)
	}
	return &BigQuery{client: client, dataset: dataset, table: table}, nil
}

func (l *BigQuery) Start(ctx context.Context, run Run) error {
	row := &runRow{
		RunID:       run.ID,
		Source:      run.Source,
		Destination: run.Destination,
		Status:      StatusRunning,
		StartedAt:   run.StartedAt,
	}
	inserter := l.client.Dataset(l.dataset).Table(l.table).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("runledger: inserting run row: %w", err)
	}
	return nil
}

func (l *BigQuery) Succeed(ctx context.Context, runID, location string, rows int) error {
	q := l.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    output_location = @output_location,
		    rows_written = @rows_written,
		    error_message = ""
		WHERE run_id = @run_id
	`, l.dataset, l.table))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: StatusSuccess},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "output_location", Value: location},
		{Name: "rows_written", Value: int64(rows)},
		{Name: "run_id", Value: runID},
	}
	return l.runQuery(ctx, q)
}

func (l *BigQuery) Fail(ctx context.Context, runID, stage string, runErr error) {
	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		if len(errMsg) > maxErrorLen {
			errMsg = errMsg[:maxErrorLen]
		}
	}

	q := l.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    stage = @stage,
		    error_message = @error_message
		WHERE run_id = @run_id
	`, l.dataset, l.table))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: StatusFailed},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "stage", Value: stage},
		{Name: "error_message", Value: errMsg},
		{Name: "run_id", Value: runID},
	}
	// Best-effort: the pipeline error must surface, not the ledger's.
	_ = l.runQuery(ctx, q)
}

func (l *BigQuery) runQuery(ctx context.Context, q *bigquery.Query) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("runledger: running update query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("runledger: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("runledger: job error: %w", err)
	}
	return nil
}

// Close releases the BigQuery client.
func (l *BigQuery) Close() error {
	return l.client.Close()
}
