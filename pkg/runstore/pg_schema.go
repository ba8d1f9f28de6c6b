package runstore

import "context"

// migrate creates the necessary database tables
func (s *PGStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS egress_runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		total_checks INTEGER NOT NULL,
		failed_checks INTEGER NOT NULL,
		summary TEXT NOT NULL,
		report JSONB
	);

	CREATE INDEX IF NOT EXISTS idx_egress_runs_started_at ON egress_runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_egress_runs_status ON egress_runs(status);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}
