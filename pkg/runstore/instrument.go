package runstore

import (
	"context"
	"time"

	"github.com/dd0wney/cluso-egress/pkg/metrics"
)

// Instrument wraps store so operation counts and latencies land in reg.
// A nil reg selects the default metrics registry.
func Instrument(store Store, reg *metrics.Registry) Store {
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &instrumentedStore{inner: store, reg: reg}
}

type instrumentedStore struct {
	inner Store
	reg   *metrics.Registry
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.reg.RecordRunstoreOperation(op, status, time.Since(start))
}

func (s *instrumentedStore) SaveRun(ctx context.Context, rec *RunRecord) error {
	start := time.Now()
	err := s.inner.SaveRun(ctx, rec)
	s.observe("save_run", start, err)
	return err
}

func (s *instrumentedStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	start := time.Now()
	rec, err := s.inner.GetRun(ctx, id)
	s.observe("get_run", start, err)
	return rec, err
}

func (s *instrumentedStore) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	start := time.Now()
	recs, err := s.inner.ListRuns(ctx, limit)
	s.observe("list_runs", start, err)
	return recs, err
}

func (s *instrumentedStore) DeleteRun(ctx context.Context, id string) error {
	start := time.Now()
	err := s.inner.DeleteRun(ctx, id)
	s.observe("delete_run", start, err)
	return err
}

func (s *instrumentedStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()
	n, err := s.inner.PruneBefore(ctx, cutoff)
	s.observe("prune_before", start, err)
	return n, err
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.inner.Ping(ctx)
	s.observe("ping", start, err)
	return err
}

func (s *instrumentedStore) Close() error { return s.inner.Close() }
