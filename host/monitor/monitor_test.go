package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"doppler/core"
	"doppler/protocol"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	samples []Sample
	err     error
}

func (s *memorySink) Record(_ context.Context, sample Sample) error {
	if s.err != nil {
		return s.err
	}
	s.samples = append(s.samples, sample)
	return nil
}

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestMonitor(t *testing.T, sink Sink) (*Monitor, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	log := zerolog.New(&logs).Level(zerolog.DebugLevel)
	m := New(log, NewWindow(50, 1), sink)
	m.now = func() time.Time { return epoch }
	return m, &logs
}

func encodeReports(reports ...protocol.Report) []byte {
	var stream []byte
	out := protocol.NewScratchOutput()
	for _, r := range reports {
		out.Reset()
		protocol.EncodeReport(out, r)
		stream = append(stream, out.Result()...)
	}
	return stream
}

func TestMonitorRun(t *testing.T) {
	sink := &memorySink{}
	m, _ := newTestMonitor(t, sink)

	stream := encodeReports(
		protocol.Report{Sequence: 1, Sampling: uint8(core.SampledWaveform), Unit: uint8(core.Metric), Frequency: 0, Speed: 0},
		protocol.Report{Sequence: 2, Sampling: uint8(core.ComparatorEdge), Unit: uint8(core.Metric), Frequency: 1000, Speed: 51.25},
		protocol.Report{Sequence: 3, Sampling: uint8(core.ComparatorEdge), Unit: uint8(core.Imperial), Frequency: 1000, Speed: 31.75},
	)

	require.NoError(t, m.Run(context.Background(), bytes.NewReader(stream)))

	expected := []Sample{
		{Received: epoch, Sequence: 1, Sampling: core.SampledWaveform, Unit: core.Metric},
		{Received: epoch, Sequence: 2, Sampling: core.ComparatorEdge, Unit: core.Metric, Frequency: 1000, Speed: 51.25},
		{Received: epoch, Sequence: 3, Sampling: core.ComparatorEdge, Unit: core.Imperial, Frequency: 1000, Speed: 31.75},
	}
	if diff := cmp.Diff(expected, sink.samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}

	summary := m.Summary()
	assert.Equal(t, uint64(3), summary.Samples)
	assert.Equal(t, uint64(2), summary.Kept, "the 0 km/h reading is below min speed")
	assert.Equal(t, uint64(0), summary.Missed)
	assert.Equal(t, 1, m.window.Stats(core.Metric).Count)
	assert.Equal(t, 1, m.window.Stats(core.Imperial).Count)
}

func TestMonitorMissedAndRestart(t *testing.T) {
	m, logs := newTestMonitor(t, nil)

	stream := encodeReports(
		protocol.Report{Sequence: 5},
		protocol.Report{Sequence: 6},
		protocol.Report{Sequence: 9},
		protocol.Report{Sequence: 0},
	)
	m.Feed(context.Background(), stream)

	assert.Equal(t, uint64(4), m.Summary().Samples)
	assert.Equal(t, uint64(2), m.Summary().Missed)
	assert.Contains(t, logs.String(), "missed readings")
	assert.Contains(t, logs.String(), "radar restarted")
}

func TestMonitorSkipsCorruption(t *testing.T) {
	sink := &memorySink{}
	m, logs := newTestMonitor(t, sink)

	good := encodeReports(protocol.Report{Sequence: 1, Speed: 10})
	bad := encodeReports(protocol.Report{Sequence: 2, Speed: 20})
	bad[3] ^= 0x40
	tail := encodeReports(protocol.Report{Sequence: 3, Speed: 30})

	var stream []byte
	stream = append(stream, 0x00, 0x13, 0x37) // noise before the first block
	stream = append(stream, protocol.MessageValueSync)
	stream = append(stream, good...)
	stream = append(stream, bad...)
	stream = append(stream, tail...)

	m.Feed(context.Background(), stream)

	require.Len(t, sink.samples, 2)
	assert.Equal(t, uint32(1), sink.samples[0].Sequence)
	assert.Equal(t, uint32(3), sink.samples[1].Sequence)
	assert.NotZero(t, m.Summary().Dropped)
	assert.Contains(t, logs.String(), "rejected telemetry blocks")
}

func TestMonitorSplitReads(t *testing.T) {
	sink := &memorySink{}
	m, _ := newTestMonitor(t, sink)

	stream := encodeReports(
		protocol.Report{Sequence: 1, Speed: 12},
		protocol.Report{Sequence: 2, Speed: 13},
	)
	for _, b := range stream {
		m.Feed(context.Background(), []byte{b})
	}

	require.Len(t, sink.samples, 2)
	assert.Equal(t, 13.0, sink.samples[1].Speed)
}

func TestMonitorSinkError(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	m, logs := newTestMonitor(t, sink)

	m.Feed(context.Background(), encodeReports(protocol.Report{Sequence: 1, Speed: 5}))

	assert.Equal(t, uint64(1), m.Summary().SinkErrors)
	assert.Contains(t, logs.String(), "disk full")
	assert.Equal(t, 1, m.window.Stats(core.Metric).Count, "statistics still updated")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestMonitorReadError(t *testing.T) {
	m, _ := newTestMonitor(t, nil)
	err := m.Run(context.Background(), failingReader{})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestMonitorCancelled(t *testing.T) {
	m, _ := newTestMonitor(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, m.Run(ctx, failingReader{}), "cancelled before the first read")
}

func TestMonitorLogsStatistics(t *testing.T) {
	m, logs := newTestMonitor(t, nil)

	var reports []protocol.Report
	for i := 1; i <= statEvery; i++ {
		reports = append(reports, protocol.Report{Sequence: uint32(i), Speed: float32(i) * 2})
	}
	m.Feed(context.Background(), encodeReports(reports...))

	assert.Contains(t, logs.String(), "speed statistics")
	m.LogSummary()
	assert.Contains(t, logs.String(), "monitor stopped")
}
