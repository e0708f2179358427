// Package pipeline sequences one Extract → Transform → Load run over a
// record set: it owns the object-store session lifecycle, walks a strict
// state machine with no internal retries, and reports a structured result
// to the caller.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-etl/internal/config"
	"github.com/dvloznov/finance-etl/internal/extract"
	"github.com/dvloznov/finance-etl/internal/load"
	"github.com/dvloznov/finance-etl/internal/objstore"
	"github.com/dvloznov/finance-etl/internal/runledger"
	"github.com/dvloznov/finance-etl/internal/transform"
)

// Stage identifies where in the pipeline a failure occurred.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
)

// State is the run lifecycle position.
type State string

const (
	StateCreated      State = "created"
	StateExtracting   State = "extracting"
	StateTransforming State = "transforming"
	StateLoading      State = "loading"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

// Result statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Result is the record reported to the caller for one processed input.
type Result struct {
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	RowsWritten int    `json:"rows_written,omitempty"`
}

// StageError carries the failing stage alongside the underlying error. The
// wrapped error keeps its taxonomy (ExtractionError, SchemaConflictError,
// TransformError, LoadError) reachable through errors.As.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// SessionFactory opens the object-store session a run owns. The run closes
// the returned store on every exit path; the extractor and writer reuse it.
type SessionFactory func(ctx context.Context) (objstore.Store, error)

// Run is one end-to-end pipeline execution. Construct with New, execute
// exactly once with Execute.
type Run struct {
	cfg      *config.Config
	log      zerolog.Logger
	ledger   runledger.Ledger
	sessions SessionFactory
	clock    func() time.Time

	id    string
	state State
}

// Option customizes a Run.
type Option func(*Run)

// WithLogger injects the run's logger; the default discards output.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Run) { r.log = log }
}

// WithLedger injects run bookkeeping; the default records nothing.
func WithLedger(l runledger.Ledger) Option {
	return func(r *Run) { r.ledger = l }
}

// WithSessionFactory replaces the default GCS session, e.g. with an
// in-memory store in tests.
func WithSessionFactory(f SessionFactory) Option {
	return func(r *Run) { r.sessions = f }
}

// WithClock replaces the wall clock used for the capture timestamp.
func WithClock(clock func() time.Time) Option {
	return func(r *Run) { r.clock = clock }
}

// New constructs a Run from configuration.
func New(cfg *config.Config, opts ...Option) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Run{
		cfg:    cfg,
		log:    zerolog.Nop(),
		ledger: runledger.Nop{},
		sessions: func(ctx context.Context) (objstore.Store, error) {
			return objstore.NewGCS(ctx)
		},
		clock: time.Now,
		id:    uuid.NewString(),
		state: StateCreated,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ID returns the run's unique identifier.
func (r *Run) ID() string { return r.id }

// State returns the run's lifecycle position.
func (r *Run) State() State { return r.state }

// Execute runs the pipeline once: Extract → Normalize → Enrich →
// Filter/Dedup → Plan → Write. Stages run strictly in sequence with no
// retry; a failure at any stage is terminal for this run only. The returned
// Result is populated in both outcomes.
func (r *Run) Execute(ctx context.Context) (Result, error) {
	result := Result{Source: r.cfg.SourcePath, Status: StatusFailed}
	if r.state != StateCreated {
		err := fmt.Errorf("pipeline: run %s already executed (state %s)", r.id, r.state)
		result.Error = err.Error()
		return result, err
	}

	log := r.log.With().Str("run_id", r.id).Logger()
	log.Info().
		Str("source", r.cfg.SourcePath).
		Str("source_type", r.cfg.SourceType).
		Str("destination", r.cfg.DestinationBucket).
		Msg("starting pipeline run")

	store, err := r.sessions(ctx)
	if err != nil {
		return r.fail(ctx, log, result, StageExtract, err)
	}
	// The session is released on every exit path, success or failure.
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("closing session")
		}
	}()

	r.setState(log, StateExtracting)
	if err := r.ledger.Start(ctx, runledger.Run{
		ID:          r.id,
		Source:      r.cfg.SourcePath,
		Destination: r.cfg.DestinationBucket,
		StartedAt:   r.clock(),
	}); err != nil {
		log.Warn().Err(err).Msg("run ledger start failed")
	}

	tab, err := extract.New(store, r.cfg.Engine).Extract(ctx, extract.Source{
		Locator: r.cfg.SourcePath,
		Kind:    r.cfg.SourceType,
	})
	if err != nil {
		return r.fail(ctx, log, result, StageExtract, err)
	}
	log.Info().Int("rows", tab.Len()).Msg("extraction complete")

	r.setState(log, StateTransforming)
	capture := captureTimestamp(r.clock)

	if err := transform.NormalizeSchema(tab); err != nil {
		return r.fail(ctx, log, result, StageTransform, err)
	}
	enr, err := transform.Enrich(tab, capture)
	if err != nil {
		return r.fail(ctx, log, result, StageTransform, err)
	}
	transform.FilterAndDedup(tab, enr)
	log.Info().
		Int("rows", tab.Len()).
		Strs("date_columns", enr.DateColumns).
		Strs("amount_columns", enr.AmountColumns).
		Msg("transformation complete")

	r.setState(log, StateLoading)
	suffix := ""
	if r.cfg.RunSuffix {
		suffix = r.id
	}
	plan := load.PlanPath(r.cfg.DestinationBucket, r.cfg.OutputPrefix, capture, suffix)
	location, rows, err := load.NewWriter(store).Write(ctx, tab, plan)
	if err != nil {
		return r.fail(ctx, log, result, StageLoad, err)
	}

	r.setState(log, StateCompleted)
	if err := r.ledger.Succeed(ctx, r.id, location, rows); err != nil {
		log.Warn().Err(err).Msg("run ledger update failed")
	}
	log.Info().Str("location", location).Int("rows", rows).Msg("pipeline run completed")

	result.Destination = location
	result.Status = StatusCompleted
	result.RowsWritten = rows
	return result, nil
}

func (r *Run) setState(log zerolog.Logger, s State) {
	r.state = s
	log.Info().Str("state", string(s)).Msg("state transition")
}

func (r *Run) fail(ctx context.Context, log zerolog.Logger, result Result, stage Stage, err error) (Result, error) {
	r.state = StateFailed
	stageErr := &StageError{Stage: stage, Err: err}
	r.ledger.Fail(ctx, r.id, string(stage), err)
	log.Error().Err(err).Str("stage", string(stage)).Msg("pipeline run failed")
	result.Error = stageErr.Error()
	return result, stageErr
}
