// Package monitor decodes the radar telemetry stream, logs each reading and
// keeps rolling speed statistics.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"doppler/core"
	"doppler/protocol"

	"github.com/rs/zerolog"
)

// Sample is one decoded report with its arrival time
type Sample struct {
	Received  time.Time
	Sequence  uint32
	Sampling  core.SamplingMode
	Unit      core.UnitMode
	Frequency float64 // Hz
	Speed     float64 // in Unit
}

// Sink persists samples
type Sink interface {
	Record(ctx context.Context, s Sample) error
}

const (
	readSize  = 256
	fifoSize  = 1024
	statEvery = 10 // Log statistics every N kept samples
)

// Monitor reads blocks from the radar and hands samples to the window and
// an optional sink. It is not safe for concurrent use.
type Monitor struct {
	log    zerolog.Logger
	window *Window
	sink   Sink
	now    func() time.Time

	fifo    *protocol.FifoBuffer
	decoder *protocol.Decoder
	pending []Sample

	haveSeq  bool
	lastSeq  uint32
	samples  uint64
	missed   uint64
	kept     uint64
	sinkErrs uint64
}

// New creates a monitor. sink may be nil.
func New(log zerolog.Logger, window *Window, sink Sink) *Monitor {
	m := &Monitor{
		log:    log,
		window: window,
		sink:   sink,
		now:    time.Now,
		fifo:   protocol.NewFifoBuffer(fifoSize),
	}
	m.decoder = protocol.NewReportDecoder(m.queue)
	return m
}

func (m *Monitor) queue(r protocol.Report) {
	m.pending = append(m.pending, Sample{
		Received:  m.now(),
		Sequence:  r.Sequence,
		Sampling:  core.SamplingMode(r.Sampling),
		Unit:      core.UnitMode(r.Unit),
		Frequency: float64(r.Frequency),
		Speed:     float64(r.Speed),
	})
}

// Run reads from r until ctx is cancelled or r returns io.EOF. Reads that
// time out with no data are retried.
func (m *Monitor) Run(ctx context.Context, r io.Reader) error {
	buf := make([]byte, readSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		n, err := r.Read(buf)
		if n > 0 {
			m.Feed(ctx, buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read telemetry: %w", err)
		}
	}
}

// Feed decodes data and processes every complete report in it
func (m *Monitor) Feed(ctx context.Context, data []byte) {
	dropped := m.decoder.Dropped()

	for len(data) > 0 {
		written := m.fifo.Write(data)
		data = data[written:]
		m.decoder.Receive(m.fifo)
	}

	if d := m.decoder.Dropped(); d != dropped {
		m.log.Warn().
			Uint32("dropped", d-dropped).
			AnErr("reason", m.decoder.Err()).
			Msg("rejected telemetry blocks")
	}

	for _, s := range m.pending {
		m.process(ctx, s)
	}
	m.pending = m.pending[:0]
}

func (m *Monitor) process(ctx context.Context, s Sample) {
	m.samples++
	m.checkSequence(s.Sequence)

	m.log.Info().
		Uint32("seq", s.Sequence).
		Str("mode", s.Sampling.Label()).
		Float64("freq_hz", s.Frequency).
		Float64("speed", s.Speed).
		Str("unit", s.Unit.Label()).
		Msg("reading")

	if m.sink != nil {
		if err := m.sink.Record(ctx, s); err != nil {
			m.sinkErrs++
			m.log.Error().Err(err).Uint32("seq", s.Sequence).Msg("failed to record reading")
		}
	}

	if !m.window.Add(s) {
		return
	}
	m.kept++
	if m.kept%statEvery == 0 {
		m.logStats(m.log.Info(), s.Unit)
	}
}

func (m *Monitor) checkSequence(seq uint32) {
	defer func() {
		m.haveSeq = true
		m.lastSeq = seq
	}()
	if !m.haveSeq {
		return
	}

	switch expected := m.lastSeq + 1; {
	case seq == expected:
	case seq > expected:
		m.missed += uint64(seq - expected)
		m.log.Warn().Uint32("expected", expected).Uint32("got", seq).Msg("missed readings")
	default:
		m.log.Info().Uint32("seq", seq).Msg("radar restarted")
	}
}

func (m *Monitor) logStats(evt *zerolog.Event, unit core.UnitMode) {
	st := m.window.Stats(unit)
	evt.Str("unit", unit.Label()).
		Int("count", st.Count).
		Float64("mean", st.Mean).
		Float64("p50", st.P50).
		Float64("p85", st.P85).
		Float64("max", st.Max).
		Msg("speed statistics")
}

// Summary reports the counters since New
type Summary struct {
	Samples    uint64
	Missed     uint64
	Kept       uint64
	Dropped    uint32
	SinkErrors uint64
}

func (m *Monitor) Summary() Summary {
	return Summary{
		Samples:    m.samples,
		Missed:     m.missed,
		Kept:       m.kept,
		Dropped:    m.decoder.Dropped(),
		SinkErrors: m.sinkErrs,
	}
}

// LogSummary writes the counters and the statistics of both units
func (m *Monitor) LogSummary() {
	s := m.Summary()
	m.log.Info().
		Uint64("samples", s.Samples).
		Uint64("missed", s.Missed).
		Uint64("kept", s.Kept).
		Uint32("dropped_blocks", s.Dropped).
		Uint64("sink_errors", s.SinkErrors).
		Msg("monitor stopped")
	for _, unit := range []core.UnitMode{core.Metric, core.Imperial} {
		if m.window.Stats(unit).Count > 0 {
			m.logStats(m.log.Info(), unit)
		}
	}
}
