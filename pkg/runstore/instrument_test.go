package runstore

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-egress/pkg/metrics"
)

func operationCount(t *testing.T, reg *metrics.Registry, op, status string) float64 {
	t.Helper()
	counter, err := reg.RunstoreOperationsTotal.GetMetricWithLabelValues(op, status)
	require.NoError(t, err)
	var metric dto.Metric
	require.NoError(t, counter.Write(&metric))
	return metric.GetCounter().GetValue()
}

func TestInstrumentRecordsOperations(t *testing.T) {
	ctx := context.Background()
	reg := metrics.NewRegistry()
	store := Instrument(NewMemoryStore(), reg)

	rec := testRecord("run-1", time.Now())
	require.NoError(t, store.SaveRun(ctx, rec))
	require.Error(t, store.SaveRun(ctx, rec))

	_, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	_, err = store.GetRun(ctx, "missing")
	require.Error(t, err)

	_, err = store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	assert.Equal(t, float64(1), operationCount(t, reg, "save_run", "success"))
	assert.Equal(t, float64(1), operationCount(t, reg, "save_run", "error"))
	assert.Equal(t, float64(1), operationCount(t, reg, "get_run", "success"))
	assert.Equal(t, float64(1), operationCount(t, reg, "get_run", "error"))
	assert.Equal(t, float64(1), operationCount(t, reg, "list_runs", "success"))
	assert.Equal(t, float64(1), operationCount(t, reg, "ping", "success"))
}

func TestInstrumentRecordsDurations(t *testing.T) {
	ctx := context.Background()
	reg := metrics.NewRegistry()
	store := Instrument(NewMemoryStore(), reg)

	require.NoError(t, store.SaveRun(ctx, testRecord("run-1", time.Now())))
	require.NoError(t, store.DeleteRun(ctx, "run-1"))

	histogram, err := reg.RunstoreOperationDuration.GetMetricWithLabelValues("delete_run")
	require.NoError(t, err)
	var metric dto.Metric
	require.NoError(t, histogram.(prometheus.Histogram).Write(&metric))
	assert.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
}

func TestInstrumentPassesThrough(t *testing.T) {
	ctx := context.Background()
	store := Instrument(NewMemoryStore(), metrics.NewRegistry())

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRun(ctx, testRecord("run-old", base)))
	require.NoError(t, store.SaveRun(ctx, testRecord("run-new", base.Add(time.Hour))))

	recs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "run-new", recs[0].ID)

	n, err := store.PruneBefore(ctx, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, store.Close())
}
