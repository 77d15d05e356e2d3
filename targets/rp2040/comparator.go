//go:build rp2040

package main

import "machine"

// ComparatorGate drives the shutdown input of the external comparator. The
// comparator output only toggles while the gate is high.
type ComparatorGate struct {
	pin machine.Pin
}

func NewComparatorGate(pin machine.Pin) *ComparatorGate {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &ComparatorGate{pin: pin}
}

func (g *ComparatorGate) Enable()  { g.pin.High() }
func (g *ComparatorGate) Disable() { g.pin.Low() }
