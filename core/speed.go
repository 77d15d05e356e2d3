package core

// Doppler constants: speed of light with the unit conversion folded in.
// v = c * fd / (2 * f0), target moving along the beam axis.
const (
	SpeedConstantMetric   = 1080000000.0 // km/h
	SpeedConstantImperial = 671000000.0  // mph
)

// Speed converts a detected Doppler shift to target speed in the given unit.
// transmitted must not be zero.
func Speed(detected, transmitted float64, unit UnitMode) float64 {
	k := SpeedConstantMetric
	if unit == Imperial {
		k = SpeedConstantImperial
	}
	return k * detected / (2 * transmitted)
}
