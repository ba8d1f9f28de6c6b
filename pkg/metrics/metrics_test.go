package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify all metric groups are initialized
	if r.ModelElementsTotal == nil {
		t.Error("ModelElementsTotal not initialized")
	}
	if r.GeometryCacheHits == nil {
		t.Error("GeometryCacheHits not initialized")
	}
	if r.GraphRoomsTotal == nil {
		t.Error("GraphRoomsTotal not initialized")
	}
	if r.ChecksTotal == nil {
		t.Error("ChecksTotal not initialized")
	}
	if r.RunDuration == nil {
		t.Error("RunDuration not initialized")
	}
	if r.ArchiveWritesTotal == nil {
		t.Error("ArchiveWritesTotal not initialized")
	}
	if r.RunstoreOperationsTotal == nil {
		t.Error("RunstoreOperationsTotal not initialized")
	}
	if r.NotifyPublishedTotal == nil {
		t.Error("NotifyPublishedTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordCheck(t *testing.T) {
	r := NewRegistry()

	// Record some verdicts
	r.RecordCheck("door_width", "pass")
	r.RecordCheck("door_width", "pass")
	r.RecordCheck("door_width", "fail")
	r.RecordCheck("corridor", "unknown")

	// Verify pass counter
	passCounter, err := r.ChecksTotal.GetMetricWithLabelValues("door_width", "pass")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := passCounter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2 {
		t.Errorf("Pass counter = %v, want 2", metric.Counter.GetValue())
	}

	// Verify fail counter
	failCounter, err := r.ChecksTotal.GetMetricWithLabelValues("door_width", "fail")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	if err := failCounter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1 {
		t.Errorf("Fail counter = %v, want 1", metric.Counter.GetValue())
	}
}

func TestRecordStage(t *testing.T) {
	r := NewRegistry()

	r.RecordStage("corridors", 50*time.Millisecond)
	r.RecordStage("corridors", 80*time.Millisecond)
	r.RecordStage("doors", 10*time.Millisecond)

	histogram, err := r.CheckStageDuration.GetMetricWithLabelValues("corridors")
	if err != nil {
		t.Fatalf("Failed to get histogram: %v", err)
	}

	var metric dto.Metric
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("Sample count = %v, want 2", metric.Histogram.GetSampleCount())
	}

	// Sum should be approximately 0.13 (0.05 + 0.08)
	sum := metric.Histogram.GetSampleSum()
	if sum < 0.12 || sum > 0.14 {
		t.Errorf("Sample sum = %v, want ~0.13", sum)
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()

	r.RecordRun("fail", 2*time.Second, 62.5)

	counter, err := r.RunsTotal.GetMetricWithLabelValues("fail")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1 {
		t.Errorf("Runs counter = %v, want 1", metric.Counter.GetValue())
	}

	if err := r.RunDuration.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 1 {
		t.Errorf("Run duration sample count = %v, want 1", metric.Histogram.GetSampleCount())
	}

	if err := r.RunScore.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Gauge.GetValue() != 62.5 {
		t.Errorf("RunScore = %v, want 62.5", metric.Gauge.GetValue())
	}
}

func TestUpdateModelStats(t *testing.T) {
	r := NewRegistry()

	r.UpdateModelStats(
		map[string]int{"space": 12, "door": 8, "wall": 40},
		map[string]int{"fills": 8, "bounds": 24},
	)

	doorGauge, err := r.ModelElementsTotal.GetMetricWithLabelValues("door")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := doorGauge.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Gauge.GetValue() != 8 {
		t.Errorf("door elements gauge = %v, want 8", metric.Gauge.GetValue())
	}

	boundsGauge, err := r.ModelRelationsTotal.GetMetricWithLabelValues("bounds")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	if err := boundsGauge.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Gauge.GetValue() != 24 {
		t.Errorf("bounds relations gauge = %v, want 24", metric.Gauge.GetValue())
	}
}

func TestUpdateGeometryStats(t *testing.T) {
	r := NewRegistry()

	r.UpdateGeometryStats(120, 30, 4)

	tests := []struct {
		name     string
		gauge    prometheus.Gauge
		expected float64
	}{
		{"GeometryCacheHits", r.GeometryCacheHits, 120},
		{"GeometryCacheMisses", r.GeometryCacheMisses, 30},
		{"GeometryTessellationFailures", r.GeometryTessellationFailures, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var metric dto.Metric
			if err := tt.gauge.Write(&metric); err != nil {
				t.Fatalf("Failed to write metric: %v", err)
			}

			if metric.Gauge.GetValue() != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, metric.Gauge.GetValue(), tt.expected)
			}
		})
	}
}

func TestUpdateGraphStats(t *testing.T) {
	r := NewRegistry()

	r.UpdateGraphStats(10, 14, 2, 3)

	tests := []struct {
		name     string
		gauge    prometheus.Gauge
		expected float64
	}{
		{"GraphRoomsTotal", r.GraphRoomsTotal, 10},
		{"GraphDoorLinksTotal", r.GraphDoorLinksTotal, 14},
		{"GraphUnlinkedDoorsTotal", r.GraphUnlinkedDoorsTotal, 2},
		{"GraphStairRoomsTotal", r.GraphStairRoomsTotal, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var metric dto.Metric
			if err := tt.gauge.Write(&metric); err != nil {
				t.Fatalf("Failed to write metric: %v", err)
			}

			if metric.Gauge.GetValue() != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, metric.Gauge.GetValue(), tt.expected)
			}
		})
	}
}

func TestRecordArchiveWrite(t *testing.T) {
	r := NewRegistry()

	r.RecordArchiveWrite("fs", "success", 2048, 5*time.Millisecond)
	r.RecordArchiveWrite("fs", "success", 4096, 8*time.Millisecond)
	r.RecordArchiveWrite("s3", "error", 0, 100*time.Millisecond)

	successCounter, err := r.ArchiveWritesTotal.GetMetricWithLabelValues("fs", "success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := successCounter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2 {
		t.Errorf("fs success counter = %v, want 2", metric.Counter.GetValue())
	}

	if err := r.ArchiveWriteBytes.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("Write bytes sample count = %v, want 3", metric.Histogram.GetSampleCount())
	}

	// Sum should be 6144 (2048 + 4096 + 0)
	if metric.Histogram.GetSampleSum() != 6144 {
		t.Errorf("Write bytes sum = %v, want 6144", metric.Histogram.GetSampleSum())
	}
}

func TestRecordRunstoreOperation(t *testing.T) {
	r := NewRegistry()

	// Record some operations
	r.RecordRunstoreOperation("save_run", "success", 10*time.Millisecond)
	r.RecordRunstoreOperation("save_run", "success", 20*time.Millisecond)
	r.RecordRunstoreOperation("save_run", "error", 5*time.Millisecond)

	// Verify success counter
	successCounter, err := r.RunstoreOperationsTotal.GetMetricWithLabelValues("save_run", "success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := successCounter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2 {
		t.Errorf("Success counter = %v, want 2", metric.Counter.GetValue())
	}

	// Verify error counter
	errorCounter, err := r.RunstoreOperationsTotal.GetMetricWithLabelValues("save_run", "error")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	if err := errorCounter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1 {
		t.Errorf("Error counter = %v, want 1", metric.Counter.GetValue())
	}
}

func TestRecordNotifyPublish(t *testing.T) {
	r := NewRegistry()

	r.RecordNotifyPublish("success")
	r.RecordNotifyPublish("dropped")
	r.RecordNotifyPublish("dropped")

	droppedCounter, err := r.NotifyPublishedTotal.GetMetricWithLabelValues("dropped")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := droppedCounter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2 {
		t.Errorf("Dropped counter = %v, want 2", metric.Counter.GetValue())
	}
}

func TestGetPrometheusRegistry(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	if promRegistry == nil {
		t.Fatal("GetPrometheusRegistry() returned nil")
	}

	// Verify we can gather metrics
	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	if len(metrics) == 0 {
		t.Error("No metrics registered")
	}

	// Verify some expected metrics exist
	expectedMetrics := []string{
		"egress_graph_rooms_total",
		"egress_geometry_cache_hits",
		"egress_run_duration_seconds",
	}

	metricNames := make(map[string]bool)
	for _, m := range metrics {
		metricNames[m.GetName()] = true
	}

	for _, expected := range expectedMetrics {
		if !metricNames[expected] {
			t.Errorf("Expected metric %s not found", expected)
		}
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	// Simulate concurrent verdict recording
	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.RecordCheck("door_width", "pass")
			}
			done <- true
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}

	// Verify counter
	counter, err := r.ChecksTotal.GetMetricWithLabelValues("door_width", "pass")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}

	// Should have 1000 total verdicts (10 goroutines * 100 records)
	if metric.Counter.GetValue() != 1000 {
		t.Errorf("Counter = %v, want 1000", metric.Counter.GetValue())
	}
}

func TestMetricLabels(t *testing.T) {
	r := NewRegistry()

	// Metrics with different labels are tracked separately
	r.RecordCheck("door_width", "pass")
	r.RecordCheck("stair_width", "pass")
	r.RecordCheck("door_width", "fail")

	doorPass, _ := r.ChecksTotal.GetMetricWithLabelValues("door_width", "pass")
	stairPass, _ := r.ChecksTotal.GetMetricWithLabelValues("stair_width", "pass")
	doorFail, _ := r.ChecksTotal.GetMetricWithLabelValues("door_width", "fail")

	var metric dto.Metric

	doorPass.Write(&metric)
	if metric.Counter.GetValue() != 1 {
		t.Errorf("door_width pass counter = %v, want 1", metric.Counter.GetValue())
	}

	stairPass.Write(&metric)
	if metric.Counter.GetValue() != 1 {
		t.Errorf("stair_width pass counter = %v, want 1", metric.Counter.GetValue())
	}

	doorFail.Write(&metric)
	if metric.Counter.GetValue() != 1 {
		t.Errorf("door_width fail counter = %v, want 1", metric.Counter.GetValue())
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	// Verify all metrics have the egress_ prefix
	for _, m := range metrics {
		name := m.GetName()
		if !strings.HasPrefix(name, "egress_") {
			t.Errorf("Metric %s does not have egress_ prefix", name)
		}
	}
}

func BenchmarkRecordCheck(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordCheck("door_width", "pass")
	}
}

func BenchmarkRecordRunstoreOperation(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordRunstoreOperation("save_run", "success", 5*time.Millisecond)
	}
}

func BenchmarkSetGauge(b *testing.B) {
	r := NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.GraphRoomsTotal.Set(float64(i))
	}
}
