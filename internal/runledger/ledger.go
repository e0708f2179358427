// Package runledger records per-run bookkeeping: one row per pipeline run,
// started when extraction begins and finished with either the output
// location and row count or the failing stage and message.
package runledger

import (
	"context"
	"sync"
	"time"
)

// Statuses a run row moves through.
const (
	StatusRunning = "RUNNING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Run identifies one pipeline execution for the ledger.
type Run struct {
	ID          string
	Source      string
	Destination string
	StartedAt   time.Time
}

// Ledger records run lifecycle events. Start failing aborts nothing; the
// orchestrator logs and continues. Fail is best-effort and must not mask
// the original pipeline error.
type Ledger interface {
	Start(ctx context.Context, run Run) error
	Succeed(ctx context.Context, runID, location string, rows int) error
	Fail(ctx context.Context, runID, stage string, runErr error)
}

// Nop is the ledger used when bookkeeping is not configured.
type Nop struct{}

func (Nop) Start(context.Context, Run) error { return nil }

func (Nop) Succeed(context.Context, string, string, int) error { return nil }

func (Nop) Fail(context.Context, string, string, error) {}

// Entry is a Memory ledger row.
type Entry struct {
	Run      Run
	Status   string
	Location string
	Rows     int
	Stage    string
	Error    string
}

// Memory is an in-memory Ledger for tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]*Entry)}
}

func (m *Memory) Start(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[run.ID] = &Entry{Run: run, Status: StatusRunning}
	return nil
}

func (m *Memory) Succeed(_ context.Context, runID, location string, rows int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[runID]; ok {
		e.Status = StatusSuccess
		e.Location = location
		e.Rows = rows
	}
	return nil
}

func (m *Memory) Fail(_ context.Context, runID, stage string, runErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[runID]; ok {
		e.Status = StatusFailed
		e.Stage = stage
		if runErr != nil {
			e.Error = runErr.Error()
		}
	}
}

// Entry returns the recorded entry for a run, or nil.
func (m *Memory) Entry(runID string) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[runID]
}
