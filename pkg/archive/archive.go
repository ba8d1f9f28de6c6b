// Package archive persists run reports as compressed artifacts.
//
// Reports are JSON-encoded, snappy-compressed and framed with a checksum
// before they reach a backend, so every backend stores the same opaque
// bytes and corruption is caught on read rather than surfacing as a
// half-parsed report.
package archive

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-egress/pkg/metrics"
)

const (
	runPrefix = "runs/"
	runSuffix = ".report"
)

// Frame format: [Magic:4][DataLen:4][Data:N][Checksum:4][Timestamp:8]
const (
	frameMagic    uint32 = 0x45475241 // "EGRA"
	frameOverhead        = 20
)

// Archive writes and reads framed run reports through a backend.
type Archive struct {
	backend Backend
	metrics *metrics.Registry
}

// New wraps a backend. A nil registry falls back to the process default.
func New(backend Backend, reg *metrics.Registry) *Archive {
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Archive{backend: backend, metrics: reg}
}

// Backend returns the wrapped backend.
func (a *Archive) Backend() Backend { return a.backend }

// SaveReport archives one run report under its run ID.
func (a *Archive) SaveReport(ctx context.Context, runID string, report any) error {
	start := time.Now()
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	frame := encodeFrame(data, start)
	if err := a.backend.Put(ctx, runKey(runID), frame); err != nil {
		a.metrics.RecordArchiveWrite(a.backend.Name(), "error", 0, time.Since(start))
		return fmt.Errorf("archive report %s: %w", runID, err)
	}
	a.metrics.RecordArchiveWrite(a.backend.Name(), "success", len(frame), time.Since(start))
	return nil
}

// LoadReport reads an archived report back into out and returns the time
// it was written.
func (a *Archive) LoadReport(ctx context.Context, runID string, out any) (time.Time, error) {
	frame, err := a.backend.Get(ctx, runKey(runID))
	if err != nil {
		return time.Time{}, fmt.Errorf("load report %s: %w", runID, err)
	}
	data, writtenAt, err := decodeFrame(frame)
	if err != nil {
		return time.Time{}, fmt.Errorf("load report %s: %w", runID, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return time.Time{}, fmt.Errorf("decode report %s: %w", runID, err)
	}
	return writtenAt, nil
}

// ListRuns returns the run IDs with an archived report in ascending order.
func (a *Archive) ListRuns(ctx context.Context) ([]string, error) {
	keys, err := a.backend.List(ctx, runPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if !strings.HasPrefix(k, runPrefix) || !strings.HasSuffix(k, runSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(k, runPrefix), runSuffix))
	}
	return ids, nil
}

// DeleteRun removes an archived report, reporting whether it existed.
func (a *Archive) DeleteRun(ctx context.Context, runID string) (bool, error) {
	return a.backend.Delete(ctx, runKey(runID))
}

func runKey(runID string) string { return runPrefix + runID + runSuffix }

func encodeFrame(data []byte, writtenAt time.Time) []byte {
	compressed := snappy.Encode(nil, data)
	frame := make([]byte, 0, len(compressed)+frameOverhead)
	frame = binary.BigEndian.AppendUint32(frame, frameMagic)
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(compressed)))
	frame = append(frame, compressed...)
	frame = binary.BigEndian.AppendUint32(frame, crc32.ChecksumIEEE(compressed))
	frame = binary.BigEndian.AppendUint64(frame, uint64(writtenAt.Unix()))
	return frame
}

func decodeFrame(frame []byte) ([]byte, time.Time, error) {
	if len(frame) < frameOverhead {
		return nil, time.Time{}, fmt.Errorf("artifact frame too short: %d bytes", len(frame))
	}
	if magic := binary.BigEndian.Uint32(frame[0:4]); magic != frameMagic {
		return nil, time.Time{}, fmt.Errorf("invalid artifact magic: %x", magic)
	}
	n := int(binary.BigEndian.Uint32(frame[4:8]))
	if n != len(frame)-frameOverhead {
		return nil, time.Time{}, fmt.Errorf("artifact frame length mismatch: header %d, payload %d", n, len(frame)-frameOverhead)
	}
	compressed := frame[8 : 8+n]
	checksum := binary.BigEndian.Uint32(frame[8+n : 12+n])
	if crc32.ChecksumIEEE(compressed) != checksum {
		return nil, time.Time{}, fmt.Errorf("checksum mismatch for artifact")
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decompress artifact: %w", err)
	}
	writtenAt := time.Unix(int64(binary.BigEndian.Uint64(frame[12+n:20+n])), 0)
	return data, writtenAt, nil
}
