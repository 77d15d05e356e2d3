package core

// SamplingMode selects the frequency detection backend.
type SamplingMode uint8

const (
	// SampledWaveform counts zero crossings in an ADC sample window
	SampledWaveform SamplingMode = iota
	// ComparatorEdge times the interval between comparator edges
	ComparatorEdge
)

// Label returns the short name shown on the display.
func (m SamplingMode) Label() string {
	switch m {
	case ComparatorEdge:
		return "COMP"
	case SampledWaveform:
		return "ADC"
	default:
		return "?"
	}
}

// UnitMode selects the displayed speed unit.
type UnitMode uint8

const (
	Metric UnitMode = iota
	Imperial
)

// Label returns the unit name shown on the display.
func (u UnitMode) Label() string {
	switch u {
	case Metric:
		return "kmph"
	case Imperial:
		return "mph"
	default:
		return "?"
	}
}

// FrequencyBackend is a frequency detection strategy. Every method is called
// with the owning Global entered, either from the main loop or from the
// backend's interrupt handler.
type FrequencyBackend interface {
	// Start enables the hardware and clears any previous measurement
	Start() error

	// Stop disables the hardware; the last measurement is kept
	Stop()

	// HandleCallback is the body of the backend's completion interrupt
	HandleCallback()

	// CalculateFrequency returns the current estimate in Hz, 0 before the
	// first crossing has been observed. It never blocks.
	CalculateFrequency() float64

	// Running reports whether Start succeeded and Stop has not been called
	Running() bool
}
