// Package runstore persists the history of compliance runs. Two drivers
// exist: an in-memory store for tests and one-off runs, and a PostgreSQL
// store for deployments that keep history across processes. Listings
// return the newest run first under both drivers.
package runstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Common sentinel errors
var (
	ErrRunNotFound = errors.New("run not found")
	ErrRunExists   = errors.New("run already exists")
)

// RunRecord is one row of run history. Report carries the full JSON report
// produced by the engine; the remaining fields are the queryable summary.
type RunRecord struct {
	ID           string          `json:"id"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
	Status       string          `json:"status"`
	Score        float64         `json:"score"`
	TotalChecks  int             `json:"total_checks"`
	FailedChecks int             `json:"failed_checks"`
	Summary      string          `json:"summary"`
	Report       json.RawMessage `json:"report,omitempty"`
}

// Store defines the interface for run history persistence
type Store interface {
	// SaveRun stores a new record. A record with the same ID fails with
	// ErrRunExists.
	SaveRun(ctx context.Context, rec *RunRecord) error
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	// ListRuns returns up to limit records, newest first. limit <= 0
	// returns all records.
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)
	DeleteRun(ctx context.Context, id string) error
	// PruneBefore deletes runs started before cutoff and returns how many
	// were removed.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
