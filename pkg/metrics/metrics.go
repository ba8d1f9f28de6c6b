package metrics

import (
	"time"
)

// RecordCheck records a single rule verdict
func (r *Registry) RecordCheck(category, status string) {
	r.ChecksTotal.WithLabelValues(category, status).Inc()
}

// RecordStage records a pipeline stage with its duration
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.CheckStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRun records a completed run with its duration and score
func (r *Registry) RecordRun(status string, duration time.Duration, score float64) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
	r.RunScore.Set(score)
}

// RecordRejectedRecord counts an input record that failed validation
func (r *Registry) RecordRejectedRecord(record string) {
	r.ModelRejectedRecordsTotal.WithLabelValues(record).Inc()
}

// UpdateModelStats sets the per-kind element and relation gauges
func (r *Registry) UpdateModelStats(elements, relations map[string]int) {
	for kind, n := range elements {
		r.ModelElementsTotal.WithLabelValues(kind).Set(float64(n))
	}
	for kind, n := range relations {
		r.ModelRelationsTotal.WithLabelValues(kind).Set(float64(n))
	}
}

// UpdateGeometryStats sets the tessellation cache gauges
func (r *Registry) UpdateGeometryStats(hits, misses, failures int) {
	r.GeometryCacheHits.Set(float64(hits))
	r.GeometryCacheMisses.Set(float64(misses))
	r.GeometryTessellationFailures.Set(float64(failures))
}

// UpdateGraphStats sets the adjacency graph gauges
func (r *Registry) UpdateGraphStats(rooms, doorLinks, unlinkedDoors, stairRooms int) {
	r.GraphRoomsTotal.Set(float64(rooms))
	r.GraphDoorLinksTotal.Set(float64(doorLinks))
	r.GraphUnlinkedDoorsTotal.Set(float64(unlinkedDoors))
	r.GraphStairRoomsTotal.Set(float64(stairRooms))
}

// RecordArchiveWrite records an artifact write with its compressed size
func (r *Registry) RecordArchiveWrite(backend, status string, size int, duration time.Duration) {
	r.ArchiveWritesTotal.WithLabelValues(backend, status).Inc()
	r.ArchiveWriteDuration.WithLabelValues(backend).Observe(duration.Seconds())
	r.ArchiveWriteBytes.Observe(float64(size))
}

// RecordRunstoreOperation records a run store operation
func (r *Registry) RecordRunstoreOperation(operation, status string, duration time.Duration) {
	r.RunstoreOperationsTotal.WithLabelValues(operation, status).Inc()
	r.RunstoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordNotifyPublish records a run summary publication attempt
func (r *Registry) RecordNotifyPublish(status string) {
	r.NotifyPublishedTotal.WithLabelValues(status).Inc()
}
