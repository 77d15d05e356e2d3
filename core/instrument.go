package core

// Reading is the outcome of one polling cycle.
type Reading struct {
	Sampling  SamplingMode
	Unit      UnitMode
	Frequency float64 // Hz
	Speed     float64 // in Unit
	Row1      DisplayLine
	Row2      DisplayLine
}

// Instrument is the measurement pipeline driven by the main loop: button,
// mode, frequency, speed, display rows. The interrupt entry points feed the
// backends through the same Globals.
type Instrument struct {
	comparator  *Global[ComparatorBackend]
	sampled     *Global[SampledBackend]
	modes       *ModeController
	transmitted float64
}

// NewInstrument builds the pipeline around the two backend cells. Both cells
// must be installed before Boot.
func NewInstrument(comparator *Global[ComparatorBackend], sampled *Global[SampledBackend], transmittedHz float64) *Instrument {
	return &Instrument{
		comparator:  comparator,
		sampled:     sampled,
		modes:       NewModeController(comparator, sampled),
		transmitted: transmittedHz,
	}
}

// Modes returns the mode controller.
func (i *Instrument) Modes() *ModeController {
	return i.modes
}

// Boot starts the default backend.
func (i *Instrument) Boot() error {
	return i.modes.Boot()
}

// Poll runs one cycle. The reading is valid even when err is set; err only
// reports that a newly selected backend failed to start, in which case the
// reading shows 0 Hz.
func (i *Instrument) Poll(button Button) (Reading, error) {
	_, err := i.modes.Update(button)

	r := Reading{
		Sampling: i.modes.Sampling(),
		Unit:     i.modes.Unit(),
	}
	r.Frequency = i.modes.Frequency()
	r.Speed = Speed(r.Frequency, i.transmitted, r.Unit)
	r.Row1, r.Row2 = FormatRows(r.Frequency, r.Speed, r.Sampling, r.Unit)

	if IsDebugEnabled() {
		DebugPrintln("[POLL] " + r.Sampling.Label() + " f=" + hz(r.Frequency))
	}
	return r, err
}

// ComparatorInterrupt is the body of the edge timer interrupt.
func (i *Instrument) ComparatorInterrupt() {
	i.comparator.With(func(c *ComparatorBackend) {
		c.HandleCallback()
		c.ResetTimer()
	})
}

// SamplerInterrupt is the body of the buffer-ready interrupt.
func (i *Instrument) SamplerInterrupt() {
	i.sampled.With(func(s *SampledBackend) {
		s.HandleCallback()
	})
}
