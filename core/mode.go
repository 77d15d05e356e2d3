package core

// ModeController turns button presses into backend selection and unit
// selection. Each action is guarded by the mode it would set, so a button
// held across several polls acts once.
//
// At most one backend runs at any time: a switch always stops the running
// backend before starting the other.
type ModeController struct {
	comparator *Global[ComparatorBackend]
	sampled    *Global[SampledBackend]

	sampling SamplingMode
	unit     UnitMode
}

// NewModeController returns a controller in the boot defaults: sampled
// waveform detection and metric units. Call Boot to start the backend.
func NewModeController(comparator *Global[ComparatorBackend], sampled *Global[SampledBackend]) *ModeController {
	return &ModeController{
		comparator: comparator,
		sampled:    sampled,
		sampling:   SampledWaveform,
		unit:       Metric,
	}
}

// Sampling returns the active detection mode.
func (m *ModeController) Sampling() SamplingMode {
	return m.sampling
}

// Unit returns the active display unit.
func (m *ModeController) Unit() UnitMode {
	return m.unit
}

// with enters the Global owning the backend for mode.
func (m *ModeController) with(mode SamplingMode, action func(FrequencyBackend)) {
	if mode == ComparatorEdge {
		m.comparator.With(func(c *ComparatorBackend) { action(c) })
		return
	}
	m.sampled.With(func(s *SampledBackend) { action(s) })
}

func (m *ModeController) other() SamplingMode {
	if m.sampling == ComparatorEdge {
		return SampledWaveform
	}
	return ComparatorEdge
}

// Boot makes sure only the default backend runs and starts it.
func (m *ModeController) Boot() error {
	m.with(m.other(), func(b FrequencyBackend) { b.Stop() })
	return m.start(m.sampling)
}

func (m *ModeController) start(mode SamplingMode) error {
	var err error
	m.with(mode, func(b FrequencyBackend) { err = b.Start() })
	if err != nil {
		RecordEvent(EvtStartFailed, uint8(mode), 0)
		DebugPrintln("[MODE] " + mode.Label() + " start failed: " + err.Error())
		return err
	}
	RecordEvent(EvtBackendStart, uint8(mode), 0)
	return nil
}

func (m *ModeController) stop(mode SamplingMode) {
	var taken uint32
	m.with(mode, func(b FrequencyBackend) {
		b.Stop()
		switch v := b.(type) {
		case *ComparatorBackend:
			taken = v.Callbacks()
		case *SampledBackend:
			taken = v.Windows()
		}
	})
	RecordEvent(EvtBackendStop, uint8(mode), taken)
}

// switchTo stops the running backend, then starts next. The new mode is
// recorded even if Start fails; the error is returned and no backend runs.
func (m *ModeController) switchTo(next SamplingMode) error {
	prev := m.sampling
	m.stop(prev)
	m.sampling = next
	RecordEvent(EvtSamplingSwitch, uint8(next), uint32(prev))
	DebugPrintln("[MODE] sampling " + prev.Label() + " -> " + next.Label())
	return m.start(next)
}

func (m *ModeController) setUnit(next UnitMode) {
	prev := m.unit
	m.unit = next
	RecordEvent(EvtUnitSwitch, uint8(next), uint32(prev))
	DebugPrintln("[MODE] units " + prev.Label() + " -> " + next.Label())
}

// Update applies the button read this poll. changed reports whether a mode
// transition fired. err is only set when the newly selected backend failed
// to start.
func (m *ModeController) Update(button Button) (changed bool, err error) {
	switch button {
	case ButtonDown:
		if m.sampling != ComparatorEdge {
			return true, m.switchTo(ComparatorEdge)
		}
	case ButtonUp:
		if m.sampling != SampledWaveform {
			return true, m.switchTo(SampledWaveform)
		}
	case ButtonRight:
		if m.unit != Metric {
			m.setUnit(Metric)
			return true, nil
		}
	case ButtonLeft:
		if m.unit != Imperial {
			m.setUnit(Imperial)
			return true, nil
		}
	}
	return false, nil
}

// Frequency queries the active backend.
func (m *ModeController) Frequency() float64 {
	var f float64
	m.with(m.sampling, func(b FrequencyBackend) { f = b.CalculateFrequency() })
	return f
}
