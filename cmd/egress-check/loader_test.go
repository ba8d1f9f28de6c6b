package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-egress/pkg/engine"
	"github.com/dd0wney/cluso-egress/pkg/geometry"
	"github.com/dd0wney/cluso-egress/pkg/logging"
	"github.com/dd0wney/cluso-egress/pkg/metrics"
	"github.com/dd0wney/cluso-egress/pkg/model"
	"github.com/dd0wney/cluso-egress/pkg/rules"
	"github.com/dd0wney/cluso-egress/pkg/validation"
)

func rejectedCount(t *testing.T, reg *metrics.Registry, record string) float64 {
	t.Helper()
	counter, err := reg.ModelRejectedRecordsTotal.GetMetricWithLabelValues(record)
	require.NoError(t, err)
	var metric dto.Metric
	require.NoError(t, counter.Write(&metric))
	return metric.GetCounter().GetValue()
}

func TestDemoModelPassesEveryCheck(t *testing.T) {
	reg := metrics.NewRegistry()
	log := logging.NewNopLogger()

	mf := demoModel()
	store, tess, err := assembleModel(mf, log, reg)
	require.NoError(t, err)

	eng, err := engine.New(engine.Config{Unit: mf.unit()}, log, reg)
	require.NoError(t, err)

	result, err := eng.Run(context.Background(), store, tess)
	require.NoError(t, err)

	assert.Equal(t, engine.StatusPass, result.Status)
	assert.Equal(t, 15, result.Summary.Total)
	assert.Equal(t, 15, result.Summary.Passed)
	for _, rec := range result.AllRecords() {
		assert.Equal(t, rules.StatusPass, rec.Status,
			"%s check on %s: %v", rec.Category, rec.ElementID, rec.Issues)
	}

	// Nothing in the demo should trip validation.
	assert.Zero(t, rejectedCount(t, reg, "element"))
	assert.Zero(t, rejectedCount(t, reg, "relation"))
}

func TestReadModelFileRoundTrip(t *testing.T) {
	mf := &modelFile{
		Unit: "m",
		Elements: []elementEntry{
			{
				ElementRecord: validation.ElementRecord{ID: "R1", Kind: "space", Name: "Lobby"},
				Box:           &boxEntry{Min: [3]float64{0, 0, 0}, Max: [3]float64{4, 4, 3}},
			},
			{
				ElementRecord: validation.ElementRecord{
					ID: "D1", Kind: "door", Name: "Entrance",
					Attributes: map[string]any{"OverallWidth": 0.9},
				},
				OperationType: "SINGLE_SWING_OUT",
				Box:           &boxEntry{Min: [3]float64{3.9, 1, 0}, Max: [3]float64{4.2, 1.9, 2.1}},
			},
			{ElementRecord: validation.ElementRecord{ID: "O1", Kind: "opening"}},
			{ElementRecord: validation.ElementRecord{ID: "W1", Kind: "wall"}},
			{ElementRecord: validation.ElementRecord{ID: "S0", Kind: "storey", Name: "Ground"}},
		},
		Relations: []validation.RelationRecord{
			{Kind: "fills", FromID: "O1", ToID: "D1"},
			{Kind: "voids", FromID: "W1", ToID: "O1"},
			{Kind: "storey", FromID: "S0", ToID: "W1"},
			{Kind: "bounds", FromID: "R1", ToID: "D1"},
		},
	}

	data, err := json.Marshal(mf)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := readModelFile(path)
	require.NoError(t, err)
	assert.Equal(t, geometry.UnitMeter, got.unit())
	require.Len(t, got.Elements, 5)
	require.Len(t, got.Relations, 4)

	reg := metrics.NewRegistry()
	store, tess, err := assembleModel(got, logging.NewNopLogger(), reg)
	require.NoError(t, err)

	stats := store.GetStatistics()
	assert.Equal(t, 5, stats.ElementCount)
	assert.Equal(t, 1, stats.FillCount)
	assert.Equal(t, 1, stats.VoidCount)
	assert.Equal(t, 1, stats.BoundaryCount)

	door, err := store.GetElement("D1")
	require.NoError(t, err)
	assert.Equal(t, model.KindDoor, door.Kind)
	assert.Equal(t, "SINGLE_SWING_OUT", door.OperationType)
	width, ok := door.Attribute("overallwidth")
	require.True(t, ok, "attribute lookup is case-insensitive")
	v, ok := width.Numeric()
	require.True(t, ok)
	assert.InDelta(t, 0.9, v, 1e-9)

	// The captured box survives as mesh geometry.
	verts, err := tess.Mesh(door)
	require.NoError(t, err)
	assert.Len(t, verts, 4)

	// The opening carried no box, so its geometry fails like a real
	// tessellator would on a shapeless element.
	opening, err := store.GetElement("O1")
	require.NoError(t, err)
	_, err = tess.Mesh(opening)
	assert.ErrorContains(t, err, "no geometry")

	assert.Zero(t, rejectedCount(t, reg, "element"))
	assert.Zero(t, rejectedCount(t, reg, "relation"))
}

func TestAssembleModelRejectsInvalidRecords(t *testing.T) {
	mf := &modelFile{
		Elements: []elementEntry{
			{ElementRecord: validation.ElementRecord{ID: "R1", Kind: "space", Name: "Lobby"}},
			{ElementRecord: validation.ElementRecord{ID: "", Kind: "space"}},
			{ElementRecord: validation.ElementRecord{ID: "X1", Kind: "roof"}},
			{ElementRecord: validation.ElementRecord{ID: "R1", Kind: "space"}},
			{ElementRecord: validation.ElementRecord{
				ID: "B1", Kind: "door",
				Attributes: map[string]any{"Panels": []any{1.0, 2.0}},
			}},
		},
		Relations: []validation.RelationRecord{
			{Kind: "fills", FromID: "O9", ToID: "D9"},
			// Storey assignment whose "storey" is really a space.
			{Kind: "storey", FromID: "R1", ToID: "R2"},
			{Kind: "sits_on", FromID: "R1", ToID: "R1"},
		},
	}

	reg := metrics.NewRegistry()
	store, _, err := assembleModel(mf, logging.NewNopLogger(), reg)
	require.NoError(t, err)

	assert.Equal(t, 1, store.GetStatistics().ElementCount)
	assert.Equal(t, float64(4), rejectedCount(t, reg, "element"))
	assert.Equal(t, float64(3), rejectedCount(t, reg, "relation"))
}

func TestAssembleModelAllRejected(t *testing.T) {
	mf := &modelFile{
		Elements: []elementEntry{
			{ElementRecord: validation.ElementRecord{ID: "X1", Kind: "roof"}},
		},
	}

	_, _, err := assembleModel(mf, logging.NewNopLogger(), metrics.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid elements")
}

func TestReadModelFileErrors(t *testing.T) {
	_, err := readModelFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = readModelFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse model")

	path = filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"elements": []}`), 0o644))
	_, err = readModelFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no elements")
}

func TestModelFileUnit(t *testing.T) {
	assert.Equal(t, geometry.UnitMeter, (&modelFile{Unit: "m"}).unit())
	assert.Equal(t, geometry.UnitMeter, (&modelFile{Unit: "metre"}).unit())
	assert.Equal(t, geometry.UnitMillimeter, (&modelFile{Unit: "mm"}).unit())
	assert.Equal(t, geometry.UnitUnknown, (&modelFile{}).unit())
	assert.Equal(t, geometry.UnitUnknown, (&modelFile{Unit: "ft"}).unit())
}
