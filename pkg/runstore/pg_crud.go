package runstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// SaveRun stores a new run record
func (s *PGStore) SaveRun(ctx context.Context, rec *RunRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("run record needs an ID")
	}

	query := `
		INSERT INTO egress_runs (id, started_at, finished_at, status, score, total_checks, failed_checks, summary, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := s.pool.Exec(ctx, query,
		rec.ID,
		rec.StartedAt,
		rec.FinishedAt,
		rec.Status,
		rec.Score,
		rec.TotalChecks,
		rec.FailedChecks,
		rec.Summary,
		[]byte(rec.Report),
	)

	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRunExists, rec.ID)
	}

	return nil
}

// GetRun retrieves a run record by ID
func (s *PGStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	query := `
		SELECT id, started_at, finished_at, status, score, total_checks, failed_checks, summary, report
		FROM egress_runs
		WHERE id = $1
	`

	rec := &RunRecord{}
	var report []byte

	err := s.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.StartedAt,
		&rec.FinishedAt,
		&rec.Status,
		&rec.Score,
		&rec.TotalChecks,
		&rec.FailedChecks,
		&rec.Summary,
		&report,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rec.Report = report
	return rec, nil
}

// ListRuns returns run records, newest first
func (s *PGStore) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	query := `
		SELECT id, started_at, finished_at, status, score, total_checks, failed_checks, summary, report
		FROM egress_runs
		ORDER BY started_at DESC, id
	`

	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var recs []*RunRecord
	for rows.Next() {
		rec := &RunRecord{}
		var report []byte

		err := rows.Scan(
			&rec.ID,
			&rec.StartedAt,
			&rec.FinishedAt,
			&rec.Status,
			&rec.Score,
			&rec.TotalChecks,
			&rec.FailedChecks,
			&rec.Summary,
			&report,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		rec.Report = report
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return recs, nil
}

// DeleteRun removes a run record by ID
func (s *PGStore) DeleteRun(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM egress_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// PruneBefore deletes runs started before cutoff
func (s *PGStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM egress_runs WHERE started_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return result.RowsAffected(), nil
}
