package core

import "errors"

var (
	ErrEmptyBuffer  = errors.New("sample buffer is empty")
	ErrSamplePeriod = errors.New("sample period must be positive")
)

// SampledConfig describes the sample window.
type SampledConfig struct {
	// Midpoint is the ADC value of the signal's zero level
	Midpoint uint16

	// SamplePeriod is the time between two samples, seconds
	SamplePeriod float64

	// KeepBuffer makes CalculateFrequency re-read the current buffer instead
	// of consuming it and re-arming the source
	KeepBuffer bool
}

// DefaultSampledConfig returns the reference instrument's sample window.
func DefaultSampledConfig() SampledConfig {
	return SampledConfig{
		Midpoint:     SampleMidpoint,
		SamplePeriod: SamplePeriod,
	}
}

// SampledBackend estimates frequency by counting zero crossings in a buffer
// that the sample source refills in the background. The buffer memory is
// written by the source while a transfer runs; it is only read after the
// buffer-ready interrupt and before the next Rearm.
type SampledBackend struct {
	source SampleSource
	buffer []uint16
	cfg    SampledConfig

	ready     bool
	running   bool
	frequency float64
	windows   uint32
}

// NewSampledBackend attaches a sample source to the buffer it fills.
func NewSampledBackend(source SampleSource, buffer []uint16, cfg SampledConfig) (*SampledBackend, error) {
	if len(buffer) == 0 {
		return nil, ErrEmptyBuffer
	}
	if !(cfg.SamplePeriod > 0) {
		return nil, ErrSamplePeriod
	}
	return &SampledBackend{
		source: source,
		buffer: buffer,
		cfg:    cfg,
	}, nil
}

func (s *SampledBackend) Start() error {
	s.frequency = 0
	s.ready = false
	if err := s.source.Start(); err != nil {
		s.running = false
		return err
	}
	s.running = true
	return nil
}

func (s *SampledBackend) Stop() {
	s.source.Stop()
	s.running = false
	s.ready = false
}

// HandleCallback marks the buffer as filled.
func (s *SampledBackend) HandleCallback() {
	if !s.running {
		return
	}
	s.ready = true
}

// CalculateFrequency measures the current window, consuming it unless the
// backend was configured with KeepBuffer.
func (s *SampledBackend) CalculateFrequency() float64 {
	return s.Measure(!s.cfg.KeepBuffer)
}

// Measure counts the zero crossings of the filled buffer and converts them to
// Hz. With restart the buffer is handed back to the source for refilling;
// without it the next call re-reads the same samples. If no buffer has been
// filled since the last restart, the previous estimate is returned.
func (s *SampledBackend) Measure(restart bool) float64 {
	if !s.ready {
		return s.frequency
	}

	crossings := CountCrossings(s.buffer, s.cfg.Midpoint)
	window := float64(len(s.buffer)) * s.cfg.SamplePeriod
	// Two crossings per cycle
	s.frequency = float64(crossings) / 2 / window
	s.windows++

	if restart {
		s.ready = false
		if s.running {
			s.source.Rearm()
		}
	}
	return s.frequency
}

func (s *SampledBackend) Running() bool {
	return s.running
}

// Windows returns the number of sample windows measured so far.
func (s *SampledBackend) Windows() uint32 {
	return s.windows
}

// Buffer exposes the sample memory so the platform can point its transfer at
// it.
func (s *SampledBackend) Buffer() []uint16 {
	return s.buffer
}

// CountCrossings returns how many times consecutive samples change side of
// midpoint. A sample equal to midpoint counts as above it.
func CountCrossings(samples []uint16, midpoint uint16) int {
	if len(samples) == 0 {
		return 0
	}
	crossings := 0
	above := samples[0] >= midpoint
	for _, v := range samples[1:] {
		now := v >= midpoint
		if now != above {
			crossings++
			above = now
		}
	}
	return crossings
}
