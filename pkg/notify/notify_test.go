package notify

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/sub"

	"github.com/dd0wney/cluso-egress/pkg/metrics"
)

func publishCount(reg *metrics.Registry, status string) float64 {
	counter, err := reg.NotifyPublishedTotal.GetMetricWithLabelValues(status)
	if err != nil {
		return -1
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		return -1
	}
	return metric.GetCounter().GetValue()
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "tcp", cfg: Config{ListenAddr: "tcp://127.0.0.1:9500"}},
		{name: "ipc", cfg: Config{ListenAddr: "ipc:///tmp/egress-notify"}},
		{name: "inproc", cfg: Config{ListenAddr: "inproc://egress-notify"}},
		{name: "missing addr", cfg: Config{}, wantErr: "ListenAddr"},
		{name: "http scheme", cfg: Config{ListenAddr: "http://127.0.0.1:9500"}, wantErr: "tcp, ipc or inproc"},
		{name: "bare host", cfg: Config{ListenAddr: "127.0.0.1:9500"}, wantErr: "tcp, ipc or inproc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunSummaryPayloadShape(t *testing.T) {
	summary := RunSummary{
		RunID:            "2c4e5c1a-9a0f-4d36-b7a1-0e9d8c7b6a54",
		StartedAt:        time.Now(),
		FinishedAt:       time.Now().Add(time.Second),
		Status:           "fail",
		Score:            62.5,
		TotalChecks:      16,
		FailedChecks:     6,
		Summary:          "6 of 16 checks failed",
		FailedByCategory: map[string]int{"doors": 4, "corridors": 2},
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{
		"run_id", "started_at", "finished_at", "status",
		"score", "total_checks", "failed_checks", "summary", "failed_by_category",
	} {
		assert.Contains(t, decoded, key)
	}
}

func TestPublisherDeliversSummaries(t *testing.T) {
	addr := "inproc://notify-test-deliver"
	reg := metrics.NewRegistry()

	publisher, err := NewPublisher(Config{ListenAddr: addr}, reg)
	require.NoError(t, err)
	require.NoError(t, publisher.Start())
	defer publisher.Stop()

	sock, err := sub.NewSocket()
	require.NoError(t, err)
	defer sock.Close()
	require.NoError(t, sock.Dial(addr))
	require.NoError(t, sock.SetOption(mangos.OptionSubscribe, []byte(TopicRun)))
	require.NoError(t, sock.SetOption(mangos.OptionRecvDeadline, 2*time.Second))

	// Let the pipe attach before broadcasting.
	time.Sleep(100 * time.Millisecond)

	want := &RunSummary{RunID: "run-1", Status: "pass", Score: 100, TotalChecks: 16}
	require.NoError(t, publisher.Publish(want))

	msg, err := sock.Recv()
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(msg, []byte(TopicRun)))

	var got RunSummary
	require.NoError(t, json.Unmarshal(msg[len(TopicRun):], &got))
	assert.Equal(t, want.RunID, got.RunID)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Score, got.Score)

	assert.Eventually(t, func() bool {
		return publishCount(reg, "success") == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPublisherDropsWhenBufferFull(t *testing.T) {
	reg := metrics.NewRegistry()
	// Not started, so nothing drains the single-slot buffer.
	publisher, err := NewPublisher(Config{ListenAddr: "inproc://notify-test-full", BufferSize: 1}, reg)
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(&RunSummary{RunID: "run-1"}))
	require.NoError(t, publisher.Publish(&RunSummary{RunID: "run-2"}))

	assert.Equal(t, float64(1), publishCount(reg, "dropped"))
}

func TestPublishAfterStop(t *testing.T) {
	reg := metrics.NewRegistry()
	publisher, err := NewPublisher(Config{ListenAddr: "inproc://notify-test-stopped"}, reg)
	require.NoError(t, err)
	require.NoError(t, publisher.Start())
	require.NoError(t, publisher.Stop())

	err = publisher.Publish(&RunSummary{RunID: "run-late"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped")
	assert.Equal(t, float64(1), publishCount(reg, "error"))
}

func TestPublisherStartTwice(t *testing.T) {
	publisher, err := NewPublisher(Config{ListenAddr: "inproc://notify-test-twice"}, metrics.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, publisher.Start())
	defer publisher.Stop()

	err = publisher.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestPublisherStopWithoutStart(t *testing.T) {
	publisher, err := NewPublisher(Config{ListenAddr: "inproc://notify-test-nostart"}, metrics.NewRegistry())
	require.NoError(t, err)
	assert.NoError(t, publisher.Stop())
}

func TestNewPublisherRejectsInvalidConfig(t *testing.T) {
	_, err := NewPublisher(Config{}, metrics.NewRegistry())
	require.Error(t, err)

	_, err = NewPublisher(Config{ListenAddr: "https://nope"}, metrics.NewRegistry())
	require.Error(t, err)
}
